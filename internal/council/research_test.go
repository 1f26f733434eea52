package council

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/quorumlabs/council/internal/search"
)

type fakeSearcher struct {
	available bool
	mu        sync.Mutex
	queries   []string
	fn        func(query string) ([]search.Result, error)
}

func (s *fakeSearcher) Available() bool { return s.available }

func (s *fakeSearcher) Search(_ context.Context, query string) ([]search.Result, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return s.fn(query)
}

func oneResult(query string) []search.Result {
	return []search.Result{{
		Title:   "result for " + query,
		Link:    "https://example.com/result",
		Snippet: "snippet text",
		Source:  "fake",
	}}
}

func TestGatherBuildsLabeledBrief(t *testing.T) {
	s := &fakeSearcher{available: true, fn: func(q string) ([]search.Result, error) {
		return oneResult(q), nil
	}}
	r := NewResearchAggregator(s, quietLogger())

	brief := r.Gather(context.Background(), "Rust")

	for _, want := range []string{
		"### Rust latest developments",
		"### Rust benchmarks and adoption statistics",
		"### Rust criticism risks and drawbacks",
		"https://example.com/result",
		"snippet text",
	} {
		if !strings.Contains(brief, want) {
			t.Errorf("brief missing %q", want)
		}
	}

	s.mu.Lock()
	n := len(s.queries)
	s.mu.Unlock()
	if n != len(queryTemplates) {
		t.Errorf("issued %d queries, want %d", n, len(queryTemplates))
	}
}

func TestGatherSwallowsPartialFailure(t *testing.T) {
	s := &fakeSearcher{available: true, fn: func(q string) ([]search.Result, error) {
		if strings.Contains(q, "criticism") {
			return nil, errors.New("provider down")
		}
		return oneResult(q), nil
	}}
	r := NewResearchAggregator(s, quietLogger())

	brief := r.Gather(context.Background(), "Rust")
	if brief == "" {
		t.Fatal("partial failure should still yield a brief")
	}
	if strings.Contains(brief, "criticism") {
		t.Error("failed query section leaked into the brief")
	}
	if !strings.Contains(brief, "latest developments") {
		t.Error("surviving section missing")
	}
}

func TestGatherTotalFailureYieldsEmptyBrief(t *testing.T) {
	s := &fakeSearcher{available: true, fn: func(string) ([]search.Result, error) {
		return nil, errors.New("provider down")
	}}
	r := NewResearchAggregator(s, quietLogger())

	if got := r.Gather(context.Background(), "Rust"); got != "" {
		t.Errorf("brief = %q, want empty", got)
	}
}

func TestGatherWithoutSearcher(t *testing.T) {
	r := NewResearchAggregator(nil, quietLogger())
	if got := r.Gather(context.Background(), "Rust"); got != "" {
		t.Errorf("brief = %q, want empty", got)
	}

	s := &fakeSearcher{available: false, fn: func(string) ([]search.Result, error) {
		t.Fatal("unavailable searcher must not be queried")
		return nil, nil
	}}
	r = NewResearchAggregator(s, quietLogger())
	if got := r.Gather(context.Background(), "Rust"); got != "" {
		t.Errorf("brief = %q, want empty", got)
	}
}

func TestFormatSectionSkipsEmptyResults(t *testing.T) {
	if got := formatSection("q", nil); got != "" {
		t.Errorf("formatSection(nil) = %q", got)
	}
	got := formatSection("q", []search.Result{{Title: "t", Link: "https://x", Date: "2026-01-01"}})
	if !strings.Contains(got, "[2026-01-01]") {
		t.Errorf("date missing: %q", got)
	}
}
