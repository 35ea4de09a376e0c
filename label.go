package topicmind

import (
	"regexp"
	"strings"
)

// MiscellaneousLabel replaces generic "Topic N" fallback labels so numeric
// cluster names never reach end users.
const MiscellaneousLabel = "Miscellaneous"

// genericTopicPattern matches labels like "Topic 42": the fallback a topic
// model emits when it could not name a cluster. "Topic Modeling Results"
// must not match.
var genericTopicPattern = regexp.MustCompile(`^(?i)topic\s+\d+$`)

// topicPrefixPattern strips a leading "topic:" marker, with or without a
// trailing space, case-insensitively.
var topicPrefixPattern = regexp.MustCompile(`^(?i)topic:\s*`)

// RawLabel is a raw multi-aspect representation value: either a plain
// string or an ordered sequence of candidate strings, some possibly empty.
// When Candidates is non-nil the sequence form applies.
type RawLabel struct {
	Value      string
	Candidates []string
}

// String renders the raw value without any cleaning.
func (r RawLabel) String() string {
	if r.Candidates != nil {
		return strings.Join(r.Candidates, ", ")
	}
	return r.Value
}

// ExtractLabel turns a raw representation value into a single clean label.
// For a sequence it takes the first non-blank candidate; a sequence with no
// non-blank candidate comes back unchanged so a non-empty raw input never
// silently becomes an empty label. The function is pure and idempotent.
func ExtractLabel(raw RawLabel) string {
	if raw.Candidates != nil {
		for _, c := range raw.Candidates {
			if strings.TrimSpace(c) != "" {
				return cleanLabel(c)
			}
		}
		return raw.String()
	}
	return cleanLabel(raw.Value)
}

// cleanLabel normalizes a scalar candidate: trim, strip the "topic:"
// prefix, and collapse generic numeric names to the placeholder.
func cleanLabel(s string) string {
	label := strings.TrimSpace(s)
	for {
		stripped := strings.TrimSpace(topicPrefixPattern.ReplaceAllString(label, ""))
		if stripped == label {
			break
		}
		label = stripped
	}

	if genericTopicPattern.MatchString(label) {
		return MiscellaneousLabel
	}
	return label
}
