package msbasicconnect

import (
	"fmt"
	"strconv"
)

// ArgumentError is returned when the text given for an action argument
// cannot be parsed
type ArgumentError struct {
	// Argument names the value being parsed, for instance "session ID"
	Argument string
	Text     string
	msg      string
}

func (ae *ArgumentError) Error() string {
	return ae.msg
}

// ParseSessionID parses a session ID in the range 0-255.  An empty string
// selects session 0
func ParseSessionID(text string) (uint32, error) {
	if text == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil || n < 0 || n > 255 {
		return 0, &ArgumentError{
			Argument: "session ID",
			Text:     text,
			msg:      fmt.Sprintf("couldn't parse session ID '%s' (must be 0-255)", text),
		}
	}
	return uint32(n), nil
}

// ParseSlotIndex parses an unsigned slot index.  Unlike ParseSessionID an
// empty string is an error
func ParseSlotIndex(text string) (uint32, error) {
	if text == "" {
		return 0, &ArgumentError{Argument: "slot index", msg: "slot index not given"}
	}

	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, &ArgumentError{
			Argument: "slot index",
			Text:     text,
			msg:      fmt.Sprintf("couldn't parse slot index '%s'", text),
		}
	}
	return uint32(n), nil
}
