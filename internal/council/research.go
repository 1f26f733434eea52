// CLAUDE:SUMMARY Research aggregator — concurrent best-effort web queries concatenated into one brief, never an error
package council

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/quorumlabs/council/internal/search"
)

// Searcher is the web-search capability the aggregator consumes.
// *search.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
	Available() bool
}

// queryTemplates are the fixed exploratory angles issued per topic:
// recency-seeking, benchmark-seeking, and critique-seeking.
var queryTemplates = []string{
	"%s latest developments",
	"%s benchmarks and adoption statistics",
	"%s criticism risks and drawbacks",
}

// ResearchAggregator assembles the one-shot research brief injected into
// every agent's initialization context.
type ResearchAggregator struct {
	searcher Searcher
	logger   *slog.Logger
}

// NewResearchAggregator creates an aggregator. A nil searcher is valid:
// Gather then returns an empty brief.
func NewResearchAggregator(searcher Searcher, logger *slog.Logger) *ResearchAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResearchAggregator{searcher: searcher, logger: logger}
}

// Gather fans the query templates out concurrently and concatenates all
// non-empty results into a labeled brief. Individual query failures are
// logged and swallowed; total failure yields "" — the debate proceeds
// without live grounding rather than failing to start.
func (r *ResearchAggregator) Gather(ctx context.Context, topic string) string {
	if r.searcher == nil || !r.searcher.Available() {
		return ""
	}

	sections := make([]string, len(queryTemplates))
	var wg sync.WaitGroup
	for i, tmpl := range queryTemplates {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			results, err := r.searcher.Search(ctx, query)
			if err != nil {
				r.logger.Warn("research query failed", "query", query, "error", err)
				return
			}
			sections[i] = formatSection(query, results)
		}(i, fmt.Sprintf(tmpl, topic))
	}
	wg.Wait()

	var nonEmpty []string
	for _, s := range sections {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}
	return strings.Join(nonEmpty, "\n\n")
}

func formatSection(query string, results []search.Result) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n", query)
	for _, res := range results {
		fmt.Fprintf(&b, "- %s (%s)", res.Title, res.Link)
		if res.Date != "" {
			fmt.Fprintf(&b, " [%s]", res.Date)
		}
		b.WriteString("\n")
		if res.Snippet != "" {
			fmt.Fprintf(&b, "  %s\n", res.Snippet)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
