package timer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime is returned when a typed time string cannot be parsed.
var ErrInvalidTime = errors.New("invalid time")

// Span is an optional duration. The zero value is empty.
type Span struct {
	d  time.Duration
	ok bool
}

// SpanOf wraps d in a non-empty Span.
func SpanOf(d time.Duration) Span {
	return Span{d: d, ok: true}
}

// Duration returns the wrapped duration and whether the span is set.
func (s Span) Duration() (time.Duration, bool) {
	return s.d, s.ok
}

// IsEmpty reports whether the span is unset.
func (s Span) IsEmpty() bool {
	return !s.ok
}

// Add returns s shifted by d. Empty spans stay empty.
func (s Span) Add(d time.Duration) Span {
	if !s.ok {
		return s
	}
	return SpanOf(s.d + d)
}

// Less reports whether s is set and shorter than o, treating an empty o as infinitely long.
func (s Span) Less(o Span) bool {
	if !s.ok {
		return false
	}
	return !o.ok || s.d < o.d
}

// FormatTime converts a duration into h:mm:ss.cc, or m:ss.cc when under an hour.
func FormatTime(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	cs := int64(d / (10 * time.Millisecond))
	h := cs / 360000
	m := cs / 6000 % 60
	sec := cs / 100 % 60
	frac := cs % 100
	if h > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d.%02d", sign, h, m, sec, frac)
	}
	return fmt.Sprintf("%s%d:%02d.%02d", sign, m, sec, frac)
}

// FormatSpan formats a span for an editable field. Empty spans render as "".
func FormatSpan(s Span) string {
	if d, ok := s.Duration(); ok {
		return FormatTime(d)
	}
	return ""
}

// ParseSpan parses a non-negative time. An empty (or blank) string yields the empty span.
func ParseSpan(input string) (Span, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Span{}, nil
	}
	d, err := parseDuration(input)
	if err != nil {
		return Span{}, err
	}
	if d < 0 {
		return Span{}, fmt.Errorf("%w: negative time %q", ErrInvalidTime, input)
	}
	return SpanOf(d), nil
}

// ParseOffset parses a start offset. Offsets may be negative but never empty.
func ParseOffset(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("%w: empty offset", ErrInvalidTime)
	}
	return parseDuration(input)
}

// parseDuration accepts [-]h:m:s.frac, [-]m:s.frac and [-]s.frac.
func parseDuration(input string) (time.Duration, error) {
	neg := false
	if strings.HasPrefix(input, "-") {
		neg = true
		input = input[1:]
	}

	parts := strings.Split(input, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, input)
	}

	var total time.Duration
	for i, part := range parts {
		last := i == len(parts)-1
		if part == "" {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, input)
		}
		if !last {
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("%w: %q", ErrInvalidTime, input)
			}
			if i > 0 && n >= 60 {
				return 0, fmt.Errorf("%w: minutes must be 0-59", ErrInvalidTime)
			}
			total = total*60 + time.Duration(n)
			continue
		}

		sec, err := parseSeconds(part)
		if err != nil {
			return 0, err
		}
		if len(parts) > 1 && sec >= time.Minute {
			return 0, fmt.Errorf("%w: seconds must be 0-59", ErrInvalidTime)
		}
		total = total*time.Minute + sec
	}

	if neg {
		total = -total
	}
	return total, nil
}

func parseSeconds(part string) (time.Duration, error) {
	whole, frac, hasFrac := strings.Cut(part, ".")
	if whole == "" && !hasFrac {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, part)
	}
	var sec int
	if whole != "" {
		n, err := strconv.Atoi(whole)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, part)
		}
		sec = n
	}
	d := time.Duration(sec) * time.Second
	if hasFrac {
		if frac == "" || len(frac) > 9 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, part)
		}
		for _, r := range frac {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("%w: %q", ErrInvalidTime, part)
			}
		}
		n, _ := strconv.Atoi(frac + strings.Repeat("0", 9-len(frac)))
		d += time.Duration(n)
	}
	return d, nil
}
