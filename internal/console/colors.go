package console

// Raw ANSI Color Codes
const (
	// Reset
	CodeReset = "\033[0m"

	// Modifiers
	CodeBold          = "\033[1m"
	CodeDim           = "\033[2m"
	CodeItalic        = "\033[3m"
	CodeUnderline     = "\033[4m"
	CodeBlink         = "\033[5m"
	CodeReverse       = "\033[7m"
	CodeStrikethrough = "\033[9m"

	// Modifier resets
	CodeBoldOff          = "\033[22m"
	CodeDimOff           = "\033[22m"
	CodeItalicOff        = "\033[23m"
	CodeUnderlineOff     = "\033[24m"
	CodeBlinkOff         = "\033[25m"
	CodeReverseOff       = "\033[27m"
	CodeStrikethroughOff = "\033[29m"

	// Foreground
	CodeBlack   = "\033[30m"
	CodeRed     = "\033[31m"
	CodeGreen   = "\033[32m"
	CodeYellow  = "\033[33m"
	CodeBlue    = "\033[34m"
	CodeMagenta = "\033[35m"
	CodeCyan    = "\033[36m"
	CodeWhite   = "\033[37m"

	// Foreground (Bright)
	CodeBrightBlack   = "\033[90m"
	CodeBrightRed     = "\033[91m"
	CodeBrightGreen   = "\033[92m"
	CodeBrightYellow  = "\033[93m"
	CodeBrightBlue    = "\033[94m"
	CodeBrightMagenta = "\033[95m"
	CodeBrightCyan    = "\033[96m"
	CodeBrightWhite   = "\033[97m"

	// Background
	CodeBlackBg   = "\033[40m"
	CodeRedBg     = "\033[41m"
	CodeGreenBg   = "\033[42m"
	CodeYellowBg  = "\033[43m"
	CodeBlueBg    = "\033[44m"
	CodeMagentaBg = "\033[45m"
	CodeCyanBg    = "\033[46m"
	CodeWhiteBg   = "\033[47m"

	// Background (Bright)
	CodeBrightBlackBg   = "\033[100m"
	CodeBrightRedBg     = "\033[101m"
	CodeBrightGreenBg   = "\033[102m"
	CodeBrightYellowBg  = "\033[103m"
	CodeBrightBlueBg    = "\033[104m"
	CodeBrightMagentaBg = "\033[105m"
	CodeBrightCyanBg    = "\033[106m"
	CodeBrightWhiteBg   = "\033[107m"
)

// AppColors defines the program-wide style assignments. Each field holds
// a style code in fg:bg:flags form (e.g. "cyan", "white:red", "cyan::b")
// consumed by the tag parser.
type AppColors struct {
	// Log levels
	Timestamp string
	Trace     string
	Debug     string
	Info      string
	Notice    string
	Warn      string
	Error     string
	Fatal     string

	// Subjects
	App             string
	ApplicationName string
	Backup          string
	Branch          string
	FailingCommand  string
	File            string
	Folder          string
	Program         string
	RunningCommand  string
	Template        string
	Update          string
	URL             string
	UserCommand     string
	Var             string
	Version         string
	Volume          string
	Yes             string
	No              string

	// Usage text
	UsageCommand string
	UsageOption  string
	UsageApp     string
	UsageFile    string
}

// Colors is the global instance for application output (stdout)
var Colors AppColors

func init() {
	Colors = AppColors{
		Timestamp: "-",
		Trace:     "blue",
		Debug:     "blue",
		Info:      "blue",
		Notice:    "green",
		Warn:      "yellow",
		Error:     "red",
		Fatal:     "white:red",

		App:             "cyan",
		ApplicationName: "cyan::b",
		Backup:          "cyan::b",
		Branch:          "cyan",
		FailingCommand:  "red",
		File:            "cyan::b",
		Folder:          "cyan::b",
		Program:         "cyan",
		RunningCommand:  "green::b",
		Template:        "cyan",
		Update:          "green",
		URL:             "cyan::u",
		UserCommand:     "yellow::b",
		Var:             "magenta",
		Version:         "cyan",
		Volume:          "magenta",
		Yes:             "green",
		No:              "red",

		UsageCommand: "yellow::b",
		UsageOption:  "yellow",
		UsageApp:     "cyan",
		UsageFile:    "cyan::b",
	}
	BuildColorMap()
	RegisterBaseTags()
}

// RegisterBaseTags registers shorthand aliases used throughout the
// application alongside the tags derived from the Colors struct.
func RegisterBaseTags() {
	RegisterSemanticTag("nc", "{{|-|}}")
	RegisterSemanticTag("bd", "{{|::B|}}")
	RegisterSemanticTag("ul", "{{|::U|}}")
	RegisterSemanticTag("dm", "{{|::D|}}")
}
