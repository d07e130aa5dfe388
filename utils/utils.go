package utils

import (
	"errors"
	"strings"

	"golang.org/x/exp/slog"
)

func LogAndReturnError(msg string, err error) error {
	if err != nil {
		slog.Warn(msg, "error", err)
	} else {
		slog.Warn(msg)
	}
	return errors.New(msg)
}

// UnquotePythonString strips the quoting Python's repr puts around a string, e.g. u'bob' or "bob".
// Anything that isn't a quoted string (None, numbers) is returned trimmed but otherwise as is.
func UnquotePythonString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "}")
	s = strings.TrimSpace(s)

	unprefixed := strings.TrimPrefix(strings.TrimPrefix(s, "u"), "b")
	if len(unprefixed) >= 2 {
		first, last := unprefixed[0], unprefixed[len(unprefixed)-1]
		if (first == '\'' || first == '"') && first == last {
			return unprefixed[1 : len(unprefixed)-1]
		}
	}
	return s
}
