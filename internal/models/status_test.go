package models

import "testing"

func TestRecommendationHiringStatus(t *testing.T) {
	cases := []struct {
		rec  Recommendation
		want HiringStatus
	}{
		{RecommendationHire, HiringStatusPassed},
		{RecommendationNoHire, HiringStatusRejected},
		{RecommendationMaybe, HiringStatusInterviewed},
		{Recommendation("strong hire"), HiringStatusInterviewed},
		{Recommendation(""), HiringStatusInterviewed},
	}

	for _, tc := range cases {
		if got := tc.rec.HiringStatus(); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.rec, tc.want, got)
		}
	}
}

func TestInterviewHasTranscript(t *testing.T) {
	blank := "   \n"
	text := "Interviewer: hello"

	if (&Interview{}).HasTranscript() {
		t.Fatal("nil transcript reported as present")
	}
	if (&Interview{Transcript: &blank}).HasTranscript() {
		t.Fatal("whitespace transcript reported as present")
	}
	if !(&Interview{Transcript: &text}).HasTranscript() {
		t.Fatal("expected transcript to be present")
	}
}
