package cli

import (
	"strconv"
	"strings"
)

type inputKind int

const (
	inputMessage inputKind = iota
	inputEmpty
	inputQuit
	inputReset
	inputImage
)

type parsedInput struct {
	kind inputKind
	text string
}

// parseInput recognizes slash commands and numbered picks of the last
// suggested actions. Anything else is a message.
func parseInput(line string, actions []string) parsedInput {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return parsedInput{kind: inputEmpty}
	case line == "/quit" || line == "/exit":
		return parsedInput{kind: inputQuit}
	case line == "/reset":
		return parsedInput{kind: inputReset}
	case strings.HasPrefix(line, "/image"):
		return parsedInput{kind: inputImage, text: strings.TrimSpace(strings.TrimPrefix(line, "/image"))}
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(actions) {
		return parsedInput{kind: inputMessage, text: actions[n-1]}
	}
	return parsedInput{kind: inputMessage, text: line}
}
