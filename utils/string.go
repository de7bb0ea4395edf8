package utils

import (
	"fmt"
	"strings"
)

// Format renders an optional value, "" for nil.
func Format[T any](ptr *T) string {
	if ptr == nil {
		return ""
	}
	return fmt.Sprintf("%v", *ptr)
}

// FormatOr renders an optional value, or fallback when it is nil or blank.
func FormatOr[T any](ptr *T, fallback string) string {
	if s := strings.TrimSpace(Format(ptr)); s != "" {
		return s
	}
	return fallback
}

func FormatBoolean(yesno bool, yes string, no string) string {
	if yesno {
		return yes
	}
	return no
}

// FirstNonEmpty returns the first argument that is not blank after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// DigitsOnly strips every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
