package analysis

import (
	"time"

	"github.com/dan-solli/retrospect/pkg/fragment"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// frag builds a minimal test fragment offset from t0.
func frag(id string, offset time.Duration, conf float64, tags ...string) fragment.Fragment {
	return fragment.Fragment{
		ID:              id,
		CreatedAt:       t0.Add(offset),
		ConfidenceScore: conf,
		SymbolicTags:    tags,
	}
}

func withContent(f fragment.Fragment, content string) fragment.Fragment {
	f.Content = content
	return f
}

func withValence(f fragment.Fragment, v fragment.Valence) fragment.Fragment {
	f.EmotionalValence = v
	return f
}
