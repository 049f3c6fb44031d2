package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameLen = 255

var ErrInvalidFileName = errors.New("invalid file name")

// CleanFileName reduces a client-supplied upload name to a bare file name.
// Directory parts and control characters are dropped; a ".." path segment
// is rejected.
func CleanFileName(name string) (string, error) {
	parts := strings.Split(strings.ReplaceAll(name, "\\", "/"), "/")
	for _, part := range parts {
		if strings.TrimSpace(part) == ".." {
			return "", ErrInvalidFileName
		}
	}
	s := parts[len(parts)-1]
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}
	if r := []rune(s); len(r) > maxFileNameLen {
		s = string(r[len(r)-maxFileNameLen:])
	}
	return s, nil
}
