// Package videoid normalizes the many shapes of YouTube video references
// (watch URLs, short links, embeds, shorts, bare ids) into one canonical
// 11-character video id.
package videoid

import (
	"fmt"
	"regexp"
)

// ParseError is returned when a raw reference cannot be reduced to a video id.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not extract video id from %q", e.Input)
}

var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:/watch\?(?:[^&\s]*&)*v=|youtu\.be/|youtube\.com/embed/)([^&\n?#/\s]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&\n?#/\s]+)`),
	regexp.MustCompile(`(?:youtube\.com)?/shorts/([^&\n?#/\s]+)`),
}

var bareID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Parse extracts the canonical video id from a URL or bare id.
// Matchers are tried in a fixed order; the first capture wins. A string that is
// already a bare 11-character id is accepted as-is. Parse is pure: the same
// input always yields the same id or the same error, and it never touches the
// network.
func Parse(raw string) (string, error) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			return m[1], nil
		}
	}

	if bareID.MatchString(raw) {
		return raw, nil
	}

	return "", &ParseError{Input: raw}
}

// Valid reports whether s is a well-formed bare video id.
func Valid(s string) bool {
	return bareID.MatchString(s)
}

// WatchURL returns the canonical watch-page URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
