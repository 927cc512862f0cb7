package http

import (
	"fmt"
	"strings"

	"gofinances/internal/services"
)

// sanitizeInput drops control characters other than tab, newline and
// carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

func periodKey(p services.Period) string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
