package clip

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Replace maps literal substrings to their replacements in output filenames.
// Operators use it to sanitize characters their filesystem rejects.
type Replace map[string]string

// Apply substitutes every key with its value across s, longest key first so
// overlapping keys cannot clobber each other's partial matches.
func (r Replace) Apply(s string) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		s = strings.ReplaceAll(s, k, r[k])
	}
	return s
}

// DefaultDenylist covers the characters rejected by Windows filesystems,
// which is a superset of what POSIX rejects.
const DefaultDenylist = `/\:*?"<>|`

// OutputFilename builds the destination filename for a clip:
//
//	<YYYY-MM-DD HH-MM-SS> - t+<XhMMmSSs> - <video title> - <clip title>.<ext>
//
// where the timestamp is the video's epoch-adjusted output timestamp and the
// t+ fragment the clip's epoch-adjusted relative start. The replacement map
// is applied to the complete name, titles included. If any rune from the
// denylist (or a control character) survives substitution the name is
// rejected with ErrUnsafeFilename.
func OutputFilename(output time.Time, rel EpochOffset, videoTitle, clipTitle, ext string, replace Replace, denylist string) (string, error) {
	name := fmt.Sprintf("%s - t+%s - %s - %s.%s",
		output.Format(sourceTimeLayout), rel.PathString(), videoTitle, clipTitle, ext)
	name = replace.Apply(name)

	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(denylist, r) {
			return "", fmt.Errorf("%w: %q contains forbidden character %q", ErrUnsafeFilename, name, r)
		}
	}
	return name, nil
}
