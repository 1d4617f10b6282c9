package textx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/career-compass/pkg/textx"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "java", textx.Normalize("  Java "))
	assert.Equal(t, "", textx.Normalize("   "))
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "hello\nworld", textx.SanitizeText("  hello\nworld\x00 "))
	assert.Equal(t, "tab\tkept", textx.SanitizeText("tab\tkept\x07"))
}

func TestContentKey_DeterministicAndCaseInsensitive(t *testing.T) {
	t.Parallel()
	a := textx.ContentKey("JD text", "Resume text")
	b := textx.ContentKey("jd text  ", "  resume text")
	c := textx.ContentKey("jd text", "different resume")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36) // uuid string form
}

func TestContainsFold(t *testing.T) {
	t.Parallel()
	assert.True(t, textx.ContainsFold("Expert Java Advice", "java"))
	assert.False(t, textx.ContainsFold("Golang", "java"))
}

func TestSentence(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Learn the basics.", textx.Sentence("learn the basics"))
	assert.Equal(t, "Already done!", textx.Sentence("already done!"))
	assert.Equal(t, "Keeps question marks?", textx.Sentence("keeps question marks?"))
	assert.Equal(t, "", textx.Sentence("   "))
}
