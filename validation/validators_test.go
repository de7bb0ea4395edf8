package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMobileNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "9876543210", ""},
		{"valid with separators", "98765-43210", ""},
		{"valid with spaces", " 98765 43210 ", ""},
		{"empty", "", msgMobileEmpty},
		{"blank", "   ", msgMobileEmpty},
		{"too short", "98765", msgMobileLength},
		{"too long", "98765432101", msgMobileLength},
		{"country code", "+91 98765 43210", msgMobileLength},
		{"letters only", "abc", msgMobileLength},
		{"bad prefix", "5876543210", msgMobilePrefix},
		{"zero prefix", "0876543210", msgMobilePrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetMobileNumberError(tt.input))
			assert.Equal(t, tt.want == "", ValidateMobileNumber(tt.input))
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "tech@atomlift.in", ""},
		{"valid padded", "  tech@atomlift.in ", ""},
		{"empty", "", msgEmailEmpty},
		{"no at", "tech.atomlift.in", msgEmailInvalid},
		{"no tld", "tech@atomlift", msgEmailInvalid},
		{"space inside", "te ch@atomlift.in", msgEmailInvalid},
		{"two ats", "a@b@c.in", msgEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetEmailError(tt.input))
			assert.Equal(t, tt.want == "", ValidateEmail(tt.input))
		})
	}
}

func TestFormatMobileNumber(t *testing.T) {
	assert.Equal(t, "9876543210", FormatMobileNumber("98765-43210-99"))
	assert.Equal(t, "98765", FormatMobileNumber("(987) 65"))
	assert.Equal(t, "", FormatMobileNumber("n/a"))
}

func TestCompareDates(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-03-10", "2024-03-10", 0},
		{"2024-03-09", "2024-03-10", -1},
		{"2024-03-11", "2024-03-10", 1},
		{"2024-03-10T23:59:00Z", "2024-03-10", 0},
		{"2024-03-10T08:00:00Z", "2024-03-10T20:00:00Z", 0},
		{"2024-02-29", "2024-03-01", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			got, err := CompareDates(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CompareDates("not a date", "2024-03-10")
	assert.Error(t, err)
}

func TestClassifyIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Identifier
	}{
		{"email", " tech@atomlift.in ", Identifier{Email: "tech@atomlift.in"}},
		{"phone", "9876543210", Identifier{Phone: "9876543210"}},
		{"formatted phone", "98765 43210", Identifier{Phone: "9876543210"}},
		{"username", "ravi.k", Identifier{Email: "ravi.k"}},
		{"short number", "12345", Identifier{Email: "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyIdentifier(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Phone != "", got.IsPhone())
		})
	}
}
