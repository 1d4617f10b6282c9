package ragseed_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/ragseed"
)

const knowledgeCSV = `id,topic,category,keywords,adviceText
k1,Java Collections,Programming,java|jdk,Know the complexity of each structure.
k2,IAM Basics,Cloud,aws|iam,Least privilege from day one.
,Generated ID Row,Misc,,Advice without an id.
k4,,Misc,,Topic missing so skipped.
`

type embedAI struct {
	fail map[string]bool
}

func (e *embedAI) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if !e.fail[t] {
			out[i] = []float32{1}
		}
	}
	return out, nil
}

func (e *embedAI) ChatJSON(_ context.Context, _, _ string) (string, error) { return "", nil }

type recordingStore struct {
	snippets []domain.KnowledgeSnippet
	vectors  [][]float32
}

func (r *recordingStore) Search(_ context.Context, _ string, _ int) ([]domain.ScoredSnippet, error) {
	return nil, nil
}

func (r *recordingStore) Upsert(_ context.Context, snippets []domain.KnowledgeSnippet, vectors [][]float32) error {
	r.snippets = append(r.snippets, snippets...)
	r.vectors = append(r.vectors, vectors...)
	return nil
}

func TestParse_ReadsSnippetsAndGeneratesIDs(t *testing.T) {
	t.Parallel()
	snippets, err := ragseed.Parse(strings.NewReader(knowledgeCSV))
	require.NoError(t, err)
	require.Len(t, snippets, 3)

	assert.Equal(t, "k1", snippets[0].ID)
	assert.Equal(t, "Java Collections", snippets[0].Topic)
	assert.Equal(t, []string{"java", "jdk"}, snippets[0].Keywords)
	assert.Equal(t, "Least privilege from day one.", snippets[1].Advice)

	// the id-less row gets a generated ULID
	assert.NotEmpty(t, snippets[2].ID)
	assert.Equal(t, "Generated ID Row", snippets[2].Topic)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := ragseed.LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestReingest_WritesAllEmbeddableSnippets(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "knowledge.csv")
	require.NoError(t, os.WriteFile(path, []byte(knowledgeCSV), 0o600))

	store := &recordingStore{}
	seeder := ragseed.New(&embedAI{}, store, path)

	n, err := seeder.Reingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, store.snippets, 3)
	assert.Len(t, store.vectors, 3)
}

func TestReingest_SkipsUnembeddableSnippets(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "knowledge.csv")
	require.NoError(t, os.WriteFile(path, []byte(knowledgeCSV), 0o600))

	// fail the embedding for the IAM snippet's canonical text form
	ai := &embedAI{fail: map[string]bool{"IAM Basics. aws iam. Least privilege from day one.": true}}
	store := &recordingStore{}

	n, err := ragseed.New(ai, store, path).Reingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	for _, sn := range store.snippets {
		assert.NotEqual(t, "IAM Basics", sn.Topic)
	}
}
