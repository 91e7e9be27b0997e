package console

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// semanticRegex matches {{_content_}} format for semantic tags
	semanticRegex = regexp.MustCompile(`\{\{_([A-Za-z0-9_]+)_\}\}`)

	// directRegex matches {{|content|}} format for direct style codes
	directRegex = regexp.MustCompile(`\{\{\|([A-Za-z0-9_:\-#]+)\|\}\}`)

	// tokenRegex matches either tag form, for walking text tag-aware
	tokenRegex = regexp.MustCompile(`\{\{_([A-Za-z0-9_]+)_\}\}|\{\{\|([A-Za-z0-9_:\-#]+)\|\}\}`)

	// ansiRegex matches ANSI SGR escape sequences
	ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// ExpandTags converts semantic tags to standardized {{|style|}} format
// - {{_Tag_}} : Semantic lookup
// - {{|code|}} : Direct style (no-op, just for consistency)
func ExpandTags(text string) string {
	return semanticRegex.ReplaceAllStringFunc(text, func(match string) string {
		content := match[3 : len(match)-3] // Strip "{{_" and "_}}"

		// Unknown semantic tags expand to nothing.
		return GetColorDefinition(content)
	})
}

// ToANSI converts semantic and direct tags to ANSI escape sequences
// - {{_Tag_}} : Semantic lookup -> ANSI
// - {{|code|}} : Direct style -> ANSI
func ToANSI(text string) string {
	ensureMaps()
	if !ColorEnabled() {
		return Strip(text)
	}

	// Expand all semantic tags first so multi-tag aliases like
	// {{|-|}}{{|blue|}} are fully visible to the second pass.
	text = ExpandTags(text)

	return directRegex.ReplaceAllStringFunc(text, func(match string) string {
		content := match[3 : len(match)-3] // Strip "{{|" and "|}}"
		return parseStyleCodeToANSI(content)
	})
}

// Strip removes all semantic and direct tags from text, as well as ANSI
// escape sequences.
func Strip(text string) string {
	text = semanticRegex.ReplaceAllString(text, "")
	text = directRegex.ReplaceAllString(text, "")
	return StripANSI(text)
}

// StripANSI removes ANSI SGR escape sequences from text.
func StripANSI(text string) string {
	return ansiRegex.ReplaceAllString(text, "")
}

// TruncateTagged shortens text to max visible runes, appending an
// ellipsis when anything was cut. Tags count as zero width and survive
// the cut; a reset is appended so a cut inside a styled span cannot
// bleed into what follows.
func TruncateTagged(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(Strip(text)) <= max {
		return text
	}

	var b strings.Builder
	visible := 0
	sawTag := false
	rest := text
	for rest != "" && visible < max-1 {
		if loc := tokenRegex.FindStringIndex(rest); loc != nil && loc[0] == 0 {
			b.WriteString(rest[:loc[1]])
			rest = rest[loc[1]:]
			sawTag = true
			continue
		}
		_, size := utf8.DecodeRuneInString(rest)
		b.WriteString(rest[:size])
		rest = rest[size:]
		visible++
	}
	b.WriteString("…")
	if sawTag {
		b.WriteString("{{|-|}}")
	}
	return b.String()
}

// Sprintf formats according to a format specifier and returns the string
// with ANSI codes.
func Sprintf(format string, a ...any) string {
	msg := fmt.Sprintf(format, a...)
	return ToANSI(msg)
}

// Println prints a line with ANSI color codes parsed
func Println(a ...any) {
	msg := fmt.Sprint(a...)
	fmt.Println(ToANSI(msg))
}

// Printf prints formatted output with ANSI color codes parsed
func Printf(format string, a ...any) {
	fmt.Print(Sprintf(format, a...))
}
