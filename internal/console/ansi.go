package console

import (
	"strings"
)

// parseStyleCodeToANSI parses fg:bg:flags format and returns ANSI codes.
// Color names resolve through ansiMap; hex values (#rrggbb) go through
// the detected termenv profile so they degrade on limited terminals.
func parseStyleCodeToANSI(content string) string {
	if content == "-" {
		return CodeReset
	}

	parts := strings.Split(content, ":")
	var codes strings.Builder

	// Part 0: Foreground color
	if len(parts) > 0 && parts[0] != "" && parts[0] != "-" {
		colorName := strings.ToLower(parts[0])
		if strings.HasPrefix(colorName, "#") {
			codes.WriteString(wrapSequence(preferredProfile.Color(colorName).Sequence(false)))
		} else if code, ok := ansiMap[colorName]; ok {
			codes.WriteString(code)
		}
		// Unknown names are dropped rather than guessed.
	}

	// Part 1: Background color
	if len(parts) > 1 && parts[1] != "" && parts[1] != "-" {
		colorName := strings.ToLower(parts[1])
		if strings.HasPrefix(colorName, "#") {
			codes.WriteString(wrapSequence(preferredProfile.Color(colorName).Sequence(true)))
		} else if code, ok := ansiMap[colorName+"bg"]; ok {
			codes.WriteString(code)
		}
	}

	// Part 2: Flags (each character is a flag: B=bold on, b=bold off, ...)
	if len(parts) > 2 && parts[2] != "" {
		for _, flag := range parts[2] {
			if code, ok := ansiMap[string(flag)]; ok {
				codes.WriteString(code)
			}
		}
	}

	return codes.String()
}

// wrapSequence ensures a color sequence part is wrapped in CSI delimiters
func wrapSequence(seq string) string {
	if seq == "" {
		return ""
	}
	if strings.HasPrefix(seq, "\x1b[") {
		return seq
	}
	return "\033[" + seq + "m"
}
