package console

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Printer is a function compatible with logger.Notice
type Printer func(ctx context.Context, msg string, args ...any)

// QuestionPrompt prompts the user with a Yes/No question.
// It returns true if the user answers Yes, false otherwise.
// defaultValue determines the default action if the user just presses Enter
// ("Y"=Yes, "N"=No, ""=Require Input).
// forceYes if true, immediately returns true without prompting (useful for -y flag).
func QuestionPrompt(ctx context.Context, printer Printer, question string, defaultValue string, forceYes bool) bool {
	if forceYes {
		return true
	}

	ynPrompt := "[YN]"
	if strings.EqualFold(defaultValue, "y") {
		ynPrompt = "[Yn]"
	} else if strings.EqualFold(defaultValue, "n") {
		ynPrompt = "[yN]"
	}

	printer(ctx, question)
	printer(ctx, ynPrompt)

	// Switch to raw mode to read a single character
	fd := int(os.Stdin.Fd())
	var oldState *term.State
	if term.IsTerminal(fd) {
		var err error
		oldState, err = term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, oldState)
		}
	}

	b := make([]byte, 1)
	answer := false
	answered := false

	for !answered {
		_, err := os.Stdin.Read(b)
		if err != nil {
			// If read fails, use default if available, else default to No (safe)
			answer = strings.EqualFold(defaultValue, "y")
			answered = true
			break
		}

		input := string(b[0])

		// Handle Enter key (CR or LF)
		if input == "\r" || input == "\n" {
			if strings.EqualFold(defaultValue, "y") {
				answer = true
				answered = true
				break
			} else if strings.EqualFold(defaultValue, "n") {
				answer = false
				answered = true
				break
			}
			// If no default, ignore Enter
			continue
		}

		lower := strings.ToLower(input)
		if lower == "y" {
			answer = true
			answered = true
			break
		}
		if lower == "n" {
			answer = false
			answered = true
			break
		}
		// Ignore other keys
	}

	// Restore terminal before printing log messages
	if oldState != nil {
		_ = term.Restore(fd, oldState)
	}

	if answer {
		printer(ctx, "Answered: {{_Yes_}}Yes{{|-|}}")
	} else {
		printer(ctx, "Answered: {{_No_}}No{{|-|}}")
	}

	return answer
}

// LinePrompt asks for a single line of input and returns it trimmed.
// An empty answer returns defaultValue.
func LinePrompt(ctx context.Context, printer Printer, question string, defaultValue string) (string, error) {
	if defaultValue != "" {
		printer(ctx, "%s [{{|cyan|}}%s{{|-|}}]", question, defaultValue)
	} else {
		printer(ctx, question)
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue, nil
	}
	return line, nil
}

// SelectPrompt prints a numbered list of options and returns the index
// the user picked, or -1 if the input was not a valid selection.
func SelectPrompt(ctx context.Context, printer Printer, question string, options []string) (int, error) {
	printer(ctx, question)
	for i, opt := range options {
		printer(ctx, "  {{|yellow|}}%d{{|-|}}) %s", i+1, opt)
	}

	answer, err := LinePrompt(ctx, printer, "Enter a number:", "")
	if err != nil {
		return -1, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		return -1, nil
	}
	return n - 1, nil
}
