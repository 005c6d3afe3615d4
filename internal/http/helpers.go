package http

import (
	"strings"
	"time"

	"budgetwise/internal/core"
)

// sanitizeInput drops control characters other than tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// today returns the current calendar day in UTC.
func (s *Server) today() core.Date {
	return core.DateOf(s.now().UTC())
}

// nowUTC is the default clock.
func nowUTC() time.Time {
	return time.Now().UTC()
}
