package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeProvider struct {
	name    string
	results []Result
	err     error
}

func (p *fakeProvider) Name() string { return p.name }
func (p *fakeProvider) Search(context.Context, string) ([]Result, error) {
	return p.results, p.err
}

func TestClientFallsThroughChain(t *testing.T) {
	c := NewClient([]Provider{
		&fakeProvider{name: "down", err: errors.New("boom")},
		&fakeProvider{name: "empty"},
		&fakeProvider{name: "up", results: []Result{{Title: "hit", Link: "https://example.com"}}},
	})

	results, err := c.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "hit" {
		t.Errorf("results = %+v", results)
	}
}

func TestClientExhaustedChain(t *testing.T) {
	c := NewClient([]Provider{
		&fakeProvider{name: "down", err: errors.New("boom")},
	})
	if _, err := c.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected error")
	}

	empty := NewClient(nil)
	if empty.Available() {
		t.Error("empty chain should not be available")
	}
	if _, err := empty.Search(context.Background(), "q"); !errors.Is(err, ErrNoResults) {
		t.Errorf("err = %v, want ErrNoResults", err)
	}
}

func TestBraveParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Subscription-Token"); got != "brave-key" {
			t.Errorf("token header = %q", got)
		}
		if q := r.URL.Query().Get("q"); q != "rust language" {
			t.Errorf("query = %q", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"web":{"results":[
			{"title":"Rust","url":"https://rust-lang.org","description":"A systems language","age":"2 days ago"},
			{"title":"Rust Book","url":"https://doc.rust-lang.org/book","description":"The book"}
		]}}`))
	}))
	defer srv.Close()

	p := NewBraveProvider("brave-key")
	p.baseURL = srv.URL

	results, err := p.Search(context.Background(), "rust language")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Link != "https://rust-lang.org" || results[0].Date != "2 days ago" {
		t.Errorf("first result = %+v", results[0])
	}
	if results[0].Source != "brave" {
		t.Errorf("source = %q", results[0].Source)
	}
}

func TestSerperParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "serper-key" {
			t.Errorf("key header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic":[{"title":"Go","link":"https://go.dev","snippet":"Build simple software","date":"Jan 2026"}]}`))
	}))
	defer srv.Close()

	p := NewSerperProvider("serper-key")
	p.baseURL = srv.URL

	results, err := p.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Link != "https://go.dev" {
		t.Errorf("results = %+v", results)
	}
}

func TestBraveHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewBraveProvider("k")
	p.baseURL = srv.URL
	_, err := p.Search(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error on 429")
	}
	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Provider != "brave" {
		t.Errorf("err = %v, want brave ProviderError", err)
	}
}
