package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cr.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark tags err with a sentinel so callers can match it with errors.Is
// while the original cause and stack stay attached for logging.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return marked{cr.Mark(err, markErr)}
}

// MarkWrap is Mark plus a message, for boundaries that add context.
func MarkWrap(err error, markErr error, msg string) error {
	if err == nil {
		return markErr
	}
	return marked{cr.Mark(cr.Wrap(err, msg), markErr)}
}

// marked lets the standard library's errors.Is see cockroach marks.
type marked struct {
	error
}

func (m marked) Is(target error) bool { return cr.Is(m.error, target) }

func (m marked) Unwrap() error { return m.error }

func (m marked) Format(s fmt.State, verb rune) { cr.FormatError(m.error, s, verb) }

func Is(err, reference error) bool {
	return cr.Is(err, reference)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
