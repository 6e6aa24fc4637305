// Package priority converts and validates task priorities under the two
// supported schemes: letters A-Z and digits 0-9.
//
// The mapping is lossy above J: K through Z all become 9, and converting back
// yields J.
package priority

import (
	"fmt"
	"strings"
)

// Mode selects the priority alphabet.
type Mode string

const (
	Letter Mode = "letter"
	Number Mode = "number"
)

// Modes lists the accepted modes in display order.
var Modes = []Mode{Letter, Number}

// ParseMode accepts "letter" or "number", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Letter:
		return Letter, nil
	case Number:
		return Number, nil
	}
	return "", fmt.Errorf("unknown priority mode %q (want letter or number)", s)
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Number {
		return Letter
	}
	return Number
}

// Range describes the alphabet for help text.
func (m Mode) Range() string {
	if m == Number {
		return "0-9"
	}
	return "A-Z"
}

// ValidationError reports a priority outside the active alphabet.
type ValidationError struct {
	Value string
	Mode  Mode
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid priority %q: expected a single character %s", e.Value, e.Mode.Range())
}

// LetterToNumber maps A=0 ... J=9; K-Z clamp to 9. Input that is not an
// upper-case letter is treated as the lowest priority.
func LetterToNumber(letter string) string {
	if !isLetter(letter) {
		return "9"
	}
	n := int(letter[0] - 'A')
	if n > 9 {
		n = 9
	}
	return string(rune('0' + n))
}

// NumberToLetter maps 0=A ... 9=J. Anything else yields "A".
func NumberToLetter(number string) string {
	if !isDigit(number) {
		return "A"
	}
	return string(rune('A' + (number[0] - '0')))
}

// IsValid reports whether p is a single character of the mode's alphabet.
func IsValid(p string, m Mode) bool {
	if m == Number {
		return isDigit(p)
	}
	return isLetter(p)
}

// Normalize rewrites p into the mode's alphabet. Values already valid for the
// mode and the empty (unset) priority pass through unchanged, as does
// anything that belongs to neither alphabet.
func Normalize(p string, m Mode) string {
	switch {
	case p == "" || IsValid(p, m):
		return p
	case m == Letter && isDigit(p):
		return NumberToLetter(p)
	case m == Number && isLetter(p):
		return LetterToNumber(p)
	}
	return p
}

// Validate checks user input against the mode, accepting lower-case letters
// in letter mode. It returns the canonical priority.
func Validate(p string, m Mode) (string, error) {
	v := strings.TrimSpace(p)
	if m == Letter {
		v = strings.ToUpper(v)
	}
	if !IsValid(v, m) {
		return "", &ValidationError{Value: p, Mode: m}
	}
	return v, nil
}

// Rank orders priorities from most (0) to least urgent across both schemes.
// Unset priorities rank after everything else.
func Rank(p string) int {
	switch {
	case isLetter(p):
		return int(p[0] - 'A')
	case isDigit(p):
		return int(p[0] - '0')
	}
	return 1 << 10
}

func isLetter(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}
