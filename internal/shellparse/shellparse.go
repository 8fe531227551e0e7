// Package shellparse splits a configured command line, such as the document
// compiler invocation, into argv without going through a shell.
package shellparse

import (
	"errors"
	"strings"
	"unicode"
)

var (
	// ErrUnclosedQuote is returned when a quoted string is not properly closed
	ErrUnclosedQuote = errors.New("unclosed quote in command string")

	// ErrTrailingEscape is returned when a backslash appears at the end of input
	ErrTrailingEscape = errors.New("trailing escape character at end of command")
)

type state int

const (
	stateSpace state = iota
	stateWord
	stateSingle
	stateDouble
)

// Split parses a command string into arguments following POSIX word
// splitting: whitespace separates words, single quotes are literal, double
// quotes allow \" \\ \$ and \` escapes, and a backslash outside quotes
// escapes any character.
func Split(input string) ([]string, error) {
	args := []string{}
	var word strings.Builder
	st := stateSpace
	runes := []rune(input)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch st {
		case stateSpace, stateWord:
			switch {
			case unicode.IsSpace(ch):
				if st == stateWord {
					args = append(args, word.String())
					word.Reset()
				}
				st = stateSpace
				continue
			case ch == '\\':
				if i+1 >= len(runes) {
					return nil, ErrTrailingEscape
				}
				i++
				word.WriteRune(runes[i])
			case ch == '\'':
				st = stateSingle
				continue
			case ch == '"':
				st = stateDouble
				continue
			default:
				word.WriteRune(ch)
			}
			st = stateWord
		case stateSingle:
			if ch == '\'' {
				st = stateWord
				continue
			}
			word.WriteRune(ch)
		case stateDouble:
			switch ch {
			case '"':
				st = stateWord
			case '\\':
				if i+1 >= len(runes) {
					return nil, ErrTrailingEscape
				}
				next := runes[i+1]
				if strings.ContainsRune("\"\\$`", next) {
					word.WriteRune(next)
					i++
				} else {
					word.WriteRune(ch)
				}
			default:
				word.WriteRune(ch)
			}
		}
	}

	switch st {
	case stateSingle, stateDouble:
		return nil, ErrUnclosedQuote
	case stateWord:
		args = append(args, word.String())
	}
	return args, nil
}
