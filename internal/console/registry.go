package console

import (
	"reflect"
	"strings"
)

var (
	// semanticMap stores semantic tag -> standardized tag mappings
	// (e.g. "app" -> "{{|cyan|}}")
	semanticMap map[string]string

	// ansiMap stores color/modifier names -> ANSI code mappings
	ansiMap map[string]string
)

// ensureMaps ensures color maps are built if they were missed by init
func ensureMaps() {
	if len(ansiMap) == 0 {
		BuildColorMap()
	}
}

// BuildColorMap initializes the ANSI code mappings and the semantic tag
// definitions derived from the Colors struct. Existing registered tags
// are preserved so aliases survive a rebuild.
func BuildColorMap() {
	ansiMap = make(map[string]string)
	if semanticMap == nil {
		semanticMap = make(map[string]string)
	}

	ansiMap["-"] = CodeReset
	ansiMap["reset"] = CodeReset

	// Flag characters: uppercase turns a modifier on, lowercase off
	ansiMap["B"] = CodeBold
	ansiMap["b"] = CodeBoldOff
	ansiMap["D"] = CodeDim
	ansiMap["d"] = CodeDimOff
	ansiMap["U"] = CodeUnderline
	ansiMap["u"] = CodeUnderlineOff
	ansiMap["L"] = CodeBlink
	ansiMap["l"] = CodeBlinkOff
	ansiMap["R"] = CodeReverse
	ansiMap["r"] = CodeReverseOff
	ansiMap["I"] = CodeItalic
	ansiMap["i"] = CodeItalicOff
	ansiMap["S"] = CodeStrikethrough
	ansiMap["s"] = CodeStrikethroughOff

	// Foreground colors
	ansiMap["black"] = CodeBlack
	ansiMap["red"] = CodeRed
	ansiMap["green"] = CodeGreen
	ansiMap["yellow"] = CodeYellow
	ansiMap["blue"] = CodeBlue
	ansiMap["magenta"] = CodeMagenta
	ansiMap["cyan"] = CodeCyan
	ansiMap["white"] = CodeWhite

	// Foreground colors (Bright)
	ansiMap["bright-black"] = CodeBrightBlack
	ansiMap["bright-red"] = CodeBrightRed
	ansiMap["bright-green"] = CodeBrightGreen
	ansiMap["bright-yellow"] = CodeBrightYellow
	ansiMap["bright-blue"] = CodeBrightBlue
	ansiMap["bright-magenta"] = CodeBrightMagenta
	ansiMap["bright-cyan"] = CodeBrightCyan
	ansiMap["bright-white"] = CodeBrightWhite

	// Background colors (with "bg" suffix for fg:bg parsing)
	ansiMap["blackbg"] = CodeBlackBg
	ansiMap["redbg"] = CodeRedBg
	ansiMap["greenbg"] = CodeGreenBg
	ansiMap["yellowbg"] = CodeYellowBg
	ansiMap["bluebg"] = CodeBlueBg
	ansiMap["magentabg"] = CodeMagentaBg
	ansiMap["cyanbg"] = CodeCyanBg
	ansiMap["whitebg"] = CodeWhiteBg

	// Background colors (Bright)
	ansiMap["bright-blackbg"] = CodeBrightBlackBg
	ansiMap["bright-redbg"] = CodeBrightRedBg
	ansiMap["bright-greenbg"] = CodeBrightGreenBg
	ansiMap["bright-yellowbg"] = CodeBrightYellowBg
	ansiMap["bright-bluebg"] = CodeBrightBlueBg
	ansiMap["bright-magentabg"] = CodeBrightMagentaBg
	ansiMap["bright-cyanbg"] = CodeBrightCyanBg
	ansiMap["bright-whitebg"] = CodeBrightWhiteBg

	// Build semantic map from the Colors struct: each field name becomes
	// a lowercase tag pointing at its style code.
	val := reflect.ValueOf(Colors)
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		key := strings.ToLower(field.Name)
		if code := val.Field(i).String(); code != "" {
			semanticMap[key] = "{{|" + code + "|}}"
		}
	}
}

// RegisterSemanticTag registers a semantic tag with its standardized
// {{|code|}} value.
func RegisterSemanticTag(name, taggedValue string) {
	ensureMaps()
	semanticMap[strings.ToLower(name)] = taggedValue
}

// GetColorDefinition returns the standardized tag value for a semantic tag
func GetColorDefinition(name string) string {
	ensureMaps()
	name = strings.TrimPrefix(name, "_")
	name = strings.TrimSuffix(name, "_")
	return semanticMap[strings.ToLower(name)]
}
