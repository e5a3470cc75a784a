package utils

import (
	"strconv"
	"strings"
)

// ParseIntOr parses s as an int, returning def when s is blank.
func ParseIntOr(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
