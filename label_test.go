package topicmind

import "testing"

func TestExtractLabelStripsTopicPrefix(t *testing.T) {
	got := ExtractLabel(RawLabel{Value: "topic: Sleep Quality"})
	if got != "Sleep Quality" {
		t.Errorf("Expected 'Sleep Quality', got %q", got)
	}
}

func TestExtractLabelGenericTopicBecomesMiscellaneous(t *testing.T) {
	cases := []string{"Topic 42", "topic 7", "TOPIC 0"}
	for _, in := range cases {
		if got := ExtractLabel(RawLabel{Value: in}); got != MiscellaneousLabel {
			t.Errorf("Expected %q for %q, got %q", MiscellaneousLabel, in, got)
		}
	}
}

func TestExtractLabelKeepsNonGenericTopicWords(t *testing.T) {
	got := ExtractLabel(RawLabel{Value: "Topic Modeling Results"})
	if got != "Topic Modeling Results" {
		t.Errorf("Expected 'Topic Modeling Results' unchanged, got %q", got)
	}
}

func TestExtractLabelSequenceTakesFirstNonBlank(t *testing.T) {
	got := ExtractLabel(RawLabel{Candidates: []string{"", "  ", "topic: Anxiety", "Sleep"}})
	if got != "Anxiety" {
		t.Errorf("Expected 'Anxiety', got %q", got)
	}
}

func TestExtractLabelAllBlankSequencePassesThrough(t *testing.T) {
	raw := RawLabel{Candidates: []string{"", "  "}}
	got := ExtractLabel(raw)
	if got != raw.String() {
		t.Errorf("Expected raw passthrough %q, got %q", raw.String(), got)
	}
}

func TestExtractLabelIsIdempotent(t *testing.T) {
	inputs := []string{
		"topic: Sleep Quality",
		"topic: topic: Nested",
		"Topic 42",
		"Plain Label",
		"  padded  ",
	}
	for _, in := range inputs {
		once := ExtractLabel(RawLabel{Value: in})
		twice := ExtractLabel(RawLabel{Value: once})
		if once != twice {
			t.Errorf("ExtractLabel not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestTopicInfoLabelPrefersGenerated(t *testing.T) {
	info := TopicInfo{KeywordLabel: "sleep, night, rest", GeneratedLabel: "Sleep Quality"}
	if got := info.Label(); got != "Sleep Quality" {
		t.Errorf("Expected generated label, got %q", got)
	}

	info.GeneratedLabel = ""
	if got := info.Label(); got != "sleep, night, rest" {
		t.Errorf("Expected keyword label fallback, got %q", got)
	}
}

func TestTopicInfoLabelBlankWhenNoText(t *testing.T) {
	cases := []TopicInfo{
		{},
		{KeywordLabel: "  ", GeneratedLabel: ""},
	}
	for _, info := range cases {
		if got := info.Label(); got != "" {
			t.Errorf("Expected blank label for unlabeled topic, got %q", got)
		}
	}
}
