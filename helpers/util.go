package helpers

import (
	"errors"
	"strings"
)

func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// CleanText trims a string and collapses internal runs of whitespace
// into a single space.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
