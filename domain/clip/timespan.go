package clip

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Offset is a position on a recording's own timeline, in whole seconds.
// This is the value cuts are issued at.
type Offset int

// EpochOffset is a position relative to a video's virtual epoch, in whole
// seconds, floored at zero. It only ever appears in output filenames;
// keeping it a separate type means a cut can never be issued at the
// epoch-adjusted position by accident.
type EpochOffset int

// ParseOffset parses a human-written time token into an Offset.
//
// The token is one to three colon-separated non-negative integer groups read
// right-to-left as seconds, minutes, hours: "90" is 90 seconds, "1:30" is
// 1m30s, "1:30:00" is 1h30m. A lone group is an unbounded seconds count;
// once more groups are present, the non-leading groups must be 0-59.
// Surrounding whitespace is ignored.
func ParseOffset(s string) (Offset, error) {
	token := strings.TrimSpace(s)
	if token == "" {
		return 0, fmt.Errorf("%w: empty token", ErrMalformedTime)
	}

	groups := strings.Split(token, ":")
	if len(groups) > 3 {
		return 0, fmt.Errorf("%w: %q has more than three groups", ErrMalformedTime, token)
	}

	total := 0
	for i, group := range groups {
		n, err := strconv.Atoi(group)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q is not a non-negative integer in %q", ErrMalformedTime, group, token)
		}
		if i > 0 && n > 59 {
			return 0, fmt.Errorf("%w: group %q out of range 0-59 in %q", ErrMalformedTime, group, token)
		}
		total = total*60 + n
	}

	return Offset(total), nil
}

// ParseRange parses a range token of the form "<time> - <time>" into its
// start and end offsets. The separator must appear exactly once, end must be
// strictly after start, and each side must parse with ParseOffset.
func ParseRange(s string) (start, end Offset, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q must contain exactly one %q separator", ErrMalformedRange, s, "-")
	}

	if start, err = ParseOffset(parts[0]); err != nil {
		return 0, 0, err
	}
	if end, err = ParseOffset(parts[1]); err != nil {
		return 0, 0, err
	}

	if end <= start {
		return 0, 0, fmt.Errorf("%w: end %s is not after start %s in %q", ErrMalformedRange, end, start, s)
	}
	return start, end, nil
}

// Seconds returns the offset as a plain second count.
func (o Offset) Seconds() int {
	return int(o)
}

// Duration converts the offset to a time.Duration.
func (o Offset) Duration() time.Duration {
	return time.Duration(o) * time.Second
}

// String returns the offset in H:MM:SS form for reports and errors.
func (o Offset) String() string {
	s := int(o)
	return fmt.Sprintf("%d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// PathString returns the filename-safe "XhMMmSSs" rendering of the offset,
// with hours unpadded and minutes/seconds zero-padded to two digits.
func (e EpochOffset) PathString() string {
	s := int(e)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%dh%02dm%02ds", s/3600, (s%3600)/60, s%60)
}
