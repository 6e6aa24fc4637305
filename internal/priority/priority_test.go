package priority

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterToNumber(t *testing.T) {
	assert.Equal(t, "0", LetterToNumber("A"))
	assert.Equal(t, "1", LetterToNumber("B"))
	assert.Equal(t, "9", LetterToNumber("J"))
	for c := 'K'; c <= 'Z'; c++ {
		assert.Equal(t, "9", LetterToNumber(string(c)), "letter %c", c)
	}
	assert.Equal(t, "9", LetterToNumber("a"))
	assert.Equal(t, "9", LetterToNumber(""))
}

func TestNumberToLetter(t *testing.T) {
	assert.Equal(t, "A", NumberToLetter("0"))
	assert.Equal(t, "E", NumberToLetter("4"))
	assert.Equal(t, "J", NumberToLetter("9"))
	assert.Equal(t, "A", NumberToLetter("X"))
	assert.Equal(t, "A", NumberToLetter("10"))
	assert.Equal(t, "A", NumberToLetter(""))
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		p    string
		mode Mode
		want bool
	}{
		{"A", Letter, true},
		{"Z", Letter, true},
		{"a", Letter, false},
		{"1", Letter, false},
		{"AB", Letter, false},
		{"0", Number, true},
		{"9", Number, true},
		{"A", Number, false},
		{"", Number, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValid(tt.p, tt.mode), "IsValid(%q, %s)", tt.p, tt.mode)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize("", Letter))
	assert.Equal(t, "", Normalize("", Number))
	assert.Equal(t, "C", Normalize("C", Letter))
	assert.Equal(t, "C", Normalize("2", Letter))
	assert.Equal(t, "2", Normalize("C", Number))
	assert.Equal(t, "9", Normalize("Q", Number))
	assert.Equal(t, "?", Normalize("?", Number))
}

func TestNormalizeLossyAboveJ(t *testing.T) {
	assert.Equal(t, "J", Normalize(Normalize("Z", Number), Letter))
}

func TestValidate(t *testing.T) {
	p, err := Validate("b", Letter)
	require.NoError(t, err)
	assert.Equal(t, "B", p)

	p, err = Validate(" 7 ", Number)
	require.NoError(t, err)
	assert.Equal(t, "7", p)

	_, err = Validate("B", Number)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, Number, verr.Mode)
	assert.Contains(t, err.Error(), "0-9")

	_, err = Validate("AA", Letter)
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Number")
	require.NoError(t, err)
	assert.Equal(t, Number, m)
	assert.Equal(t, Letter, m.Toggle())

	_, err = ParseMode("roman")
	assert.Error(t, err)
}

func TestRank(t *testing.T) {
	assert.Less(t, Rank("A"), Rank("B"))
	assert.Equal(t, Rank("C"), Rank("2"))
	assert.Less(t, Rank("Z"), Rank(""))
}
