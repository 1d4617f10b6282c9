package usecase_test

import (
	"context"
	"strings"
	"sync"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// taxRecord seeds one skill into the fake taxonomy.
type taxRecord struct {
	id       string
	display  string
	category string
	advice   string
	keywords []string
}

type fakeTaxonomy struct {
	byID     map[string]taxRecord
	nameToID map[string]string
	kwToID   map[string]string
}

func newFakeTaxonomy(records ...taxRecord) *fakeTaxonomy {
	t := &fakeTaxonomy{
		byID:     map[string]taxRecord{},
		nameToID: map[string]string{},
		kwToID:   map[string]string{},
	}
	for _, r := range records {
		t.byID[r.id] = r
		t.nameToID[strings.ToLower(r.display)] = r.id
		for _, kw := range r.keywords {
			t.kwToID[strings.ToLower(kw)] = r.id
		}
	}
	return t
}

func (t *fakeTaxonomy) Resolve(name string) string {
	lower := textx.Normalize(name)
	if id, ok := t.nameToID[lower]; ok {
		return id
	}
	if id, ok := t.kwToID[lower]; ok {
		return id
	}
	for kw, id := range t.kwToID {
		if len(kw) > 3 && strings.Contains(lower, kw) {
			return id
		}
	}
	return ""
}

func (t *fakeTaxonomy) DisplayName(id string) string { return t.byID[id].display }
func (t *fakeTaxonomy) Category(id string) string    { return t.byID[id].category }
func (t *fakeTaxonomy) Advice(id string) string      { return t.byID[id].advice }

func (t *fakeTaxonomy) Names() []string {
	out := make([]string, 0, len(t.nameToID))
	for n := range t.nameToID {
		out = append(out, n)
	}
	return out
}

func (t *fakeTaxonomy) Keywords() []string {
	out := make([]string, 0, len(t.kwToID))
	for k := range t.kwToID {
		out = append(out, k)
	}
	return out
}

func (t *fakeTaxonomy) ScanText(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	seen := map[string]bool{}
	for name, id := range t.nameToID {
		if strings.Contains(lower, name) && !seen[id] {
			seen[id] = true
			out = append(out, t.byID[id].display)
		}
	}
	return out
}

// fakeAI serves embeddings from a fixed vector table and chat completions
// from a scripted queue. Unknown texts embed to nil (unavailable).
type fakeAI struct {
	mu        sync.Mutex
	vectors   map[string][]float32
	chatOut   []string
	chatErr   error
	chatCalls int
	prompts   []string
}

func (f *fakeAI) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vectors[textx.Normalize(t)]
	}
	return out, nil
}

func (f *fakeAI) ChatJSON(_ context.Context, _, userPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls++
	f.prompts = append(f.prompts, userPrompt)
	if f.chatErr != nil {
		return "", f.chatErr
	}
	if len(f.chatOut) == 0 {
		return "{}", nil
	}
	next := f.chatOut[0]
	if len(f.chatOut) > 1 {
		f.chatOut = f.chatOut[1:]
	}
	return next, nil
}

// fakeStore returns scripted hits for every search and records the queries.
type fakeStore struct {
	mu      sync.Mutex
	hits    []domain.ScoredSnippet
	err     error
	queries []string

	upserted []domain.KnowledgeSnippet
}

func (f *fakeStore) Search(_ context.Context, query string, _ int) ([]domain.ScoredSnippet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func (f *fakeStore) Upsert(_ context.Context, snippets []domain.KnowledgeSnippet, _ [][]float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, snippets...)
	return nil
}

// devTaxonomy is the standard fixture used across the usecase tests.
func devTaxonomy() *fakeTaxonomy {
	return newFakeTaxonomy(
		taxRecord{id: "s1", display: "Java", category: "Programming", advice: "master collections and concurrency", keywords: []string{"java se", "jdk"}},
		taxRecord{id: "s2", display: "Spring Boot", category: "Framework", advice: "build a REST service end to end", keywords: []string{"springboot", "spring"}},
		taxRecord{id: "s3", display: "AWS", category: "Cloud", advice: "start with the developer associate track", keywords: []string{"amazon web services"}},
		taxRecord{id: "s4", display: "Unit Testing", category: "Practice", advice: "practice test-first on a small module", keywords: []string{"junit", "testing"}},
		taxRecord{id: "s5", display: "Docker", category: "DevOps", advice: "containerize one of your projects", keywords: []string{"containers"}},
		taxRecord{id: "s6", display: "Kubernetes", category: "DevOps", advice: "deploy to a managed cluster first", keywords: []string{"k8s"}},
		taxRecord{id: "s7", display: "Communication", category: "Soft Skills", advice: ""},
	)
}
