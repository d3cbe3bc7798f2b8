package screenshot

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

// Session produces the on-device filenames for one test-run
// invocation. It replaces the capture side's historical global
// counter: the session token is fixed at construction and each test
// name carries its own step counter, so two Sessions never interfere.
type Session struct {
	id string

	mu    sync.Mutex
	steps map[string]int // testName -> last issued step
	clock func() time.Time
}

// NewSession creates a Session whose token is derived from the current
// wall clock, e.g. 20240115_143022.
func NewSession() *Session {
	return newSession(time.Now)
}

func newSession(clock func() time.Time) *Session {
	return &Session{
		id:    clock().Format("20060102_150405"),
		steps: make(map[string]int),
		clock: clock,
	}
}

// ID returns the opaque session token.
func (s *Session) ID() string {
	return s.id
}

// Next returns the Record for the next screenshot of the given test.
// Step counters start at 1 and are independent per test name. Both
// inputs are sanitized before use.
func (s *Session) Next(testName, description string) Record {
	test := Sanitize(testName)

	s.mu.Lock()
	s.steps[test]++
	step := s.steps[test]
	s.mu.Unlock()

	return Record{
		Session:     s.id,
		TestName:    test,
		Step:        step,
		Timestamp:   strings.ReplaceAll(s.clock().Format("150405.000"), ".", "_"),
		Description: Sanitize(description),
	}
}

// NextName is Next followed by Encode.
func (s *Session) NextName(testName, description string) string {
	return Encode(s.Next(testName, description))
}

var (
	unsafeChars    = regexp.MustCompile(`[\s/\\]+`)
	underscoreRuns = regexp.MustCompile(`_{2,}`)
)

// Sanitize makes a free-text value safe for the filename grammar:
// whitespace and path separators become single underscores, and
// underscore runs are collapsed so a field can never contain the
// "__" delimiter.
func Sanitize(s string) string {
	s = unsafeChars.ReplaceAllString(s, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "unnamed"
	}
	return s
}
