// Package semantic finds glossary terms close in meaning to free text.
package semantic

import (
	"context"
	"fmt"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/escape-plan/internal/embeddings"
	"github.com/ziadkadry99/escape-plan/internal/glossary"
)

const collectionName = "glossary"

// Snapshotter yields the current glossary snapshot. *glossary.Service
// satisfies it.
type Snapshotter interface {
	Index(ctx context.Context) (*glossary.Index, error)
}

// Index keeps an in-memory chromem collection of glossary terms in step
// with the glossary snapshot.
type Index struct {
	source    Snapshotter
	embedFunc chromem.EmbeddingFunc
	db        *chromem.DB

	mu         sync.Mutex
	collection *chromem.Collection
	built      *glossary.Index // snapshot the collection was built from
	terms      map[string]glossary.Term
}

// NewIndex creates an Index over source embedding with embedder. The
// collection is built on first use.
func NewIndex(source Snapshotter, embedder embeddings.Embedder) *Index {
	return &Index{
		source:    source,
		embedFunc: toChromemFunc(embedder),
		db:        chromem.NewDB(),
	}
}

// Similar returns up to n terms ordered by similarity to query.
func (s *Index) Similar(ctx context.Context, query string, n int) ([]glossary.Term, error) {
	query = strings.TrimSpace(query)
	if query == "" || n <= 0 {
		return []glossary.Term{}, nil
	}

	snap, err := s.source.Index(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap != s.built {
		if err := s.rebuild(ctx, snap); err != nil {
			return nil, err
		}
	}

	count := s.collection.Count()
	if count == 0 {
		return []glossary.Term{}, nil
	}
	if n > count {
		n = count
	}

	results, err := s.collection.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}
	out := make([]glossary.Term, 0, len(results))
	for _, r := range results {
		if t, ok := s.terms[r.ID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// rebuild replaces the collection with one built from snap. Callers hold mu.
func (s *Index) rebuild(ctx context.Context, snap *glossary.Index) error {
	if s.collection != nil {
		if err := s.db.DeleteCollection(collectionName); err != nil {
			return fmt.Errorf("drop collection: %w", err)
		}
	}
	col, err := s.db.CreateCollection(collectionName, nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	terms := snap.Terms()
	docs := make([]chromem.Document, 0, len(terms))
	byID := make(map[string]glossary.Term, len(terms))
	for _, t := range terms {
		if t.ID == "" {
			continue
		}
		byID[t.ID] = t
		docs = append(docs, chromem.Document{
			ID:       t.ID,
			Content:  documentText(t),
			Metadata: map[string]string{"category": t.Category},
		})
	}
	if len(docs) > 0 {
		if err := col.AddDocuments(ctx, docs, 4); err != nil {
			return fmt.Errorf("embed glossary: %w", err)
		}
	}

	s.collection = col
	s.terms = byID
	s.built = snap
	return nil
}

// documentText is what gets embedded for a term.
func documentText(t glossary.Term) string {
	parts := []string{t.Term, t.Term, t.PlainEnglish, t.Definition}
	if len(t.Tags) > 0 {
		parts = append(parts, strings.Join(t.Tags, " "))
	}
	return strings.Join(parts, "\n")
}

// toChromemFunc adapts an Embedder to chromem's single-text EmbeddingFunc.
func toChromemFunc(e embeddings.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		results, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("embedder %s returned no vector", e.Name())
		}
		return results[0], nil
	}
}
