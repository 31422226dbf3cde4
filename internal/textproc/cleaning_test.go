package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactWhitespace(t *testing.T) {
	t.Run("collapses horizontal runs", func(t *testing.T) {
		assert.Equal(t, "a b c", CompactWhitespace("a  \t b\t\tc"))
	})

	t.Run("trims lines and outer blanks", func(t *testing.T) {
		assert.Equal(t, "first\nsecond", CompactWhitespace("\n\n  first  \n  second  \n\n"))
	})

	t.Run("caps blank runs at two", func(t *testing.T) {
		got := CompactWhitespace("a\n\n\n\n\n\nb")
		assert.Equal(t, "a\n\n\nb", got)
	})

	t.Run("preserves single and double breaks", func(t *testing.T) {
		in := "title\nsubtitle\n\nbody"
		assert.Equal(t, in, CompactWhitespace(in))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", CompactWhitespace(""))
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []string{
			"",
			"plain",
			"a  b\n\n\n\n\nc\td",
			"  x \r\n y ",
			"one\n\ntwo\n\n\nthree",
		}
		for _, in := range inputs {
			once := CompactWhitespace(in)
			assert.Equal(t, once, CompactWhitespace(once), "input %q", in)
		}
	})
}

func TestStripArtifacts(t *testing.T) {
	t.Run("rejoins hyphenated wraps", func(t *testing.T) {
		assert.Equal(t, "example text", StripArtifacts("exam-\nple text"))
	})

	t.Run("removes page footers", func(t *testing.T) {
		got := StripArtifacts("intro\nPage 3\nbody")
		assert.NotContains(t, got, "Page 3")
		assert.Contains(t, got, "intro")
		assert.Contains(t, got, "body")
	})

	t.Run("removes page N of M footers case-insensitively", func(t *testing.T) {
		got := StripArtifacts("intro\npage 3 / 12\nbody")
		assert.NotContains(t, strings.ToLower(got), "page 3")
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", StripArtifacts(""))
	})
}

func TestMergeFields(t *testing.T) {
	t.Run("all empty yields empty", func(t *testing.T) {
		assert.Equal(t, "", MergeFields("", "", nil))
	})

	t.Run("raw only", func(t *testing.T) {
		got := MergeFields("slide body", "", nil)
		assert.Equal(t, "TEXT:\nslide body", got)
	})

	t.Run("captions get their own block", func(t *testing.T) {
		got := MergeFields("body", "", []string{"Figure: a bar chart", ""})
		assert.Contains(t, got, "FIGURES/IMAGES:")
		assert.Contains(t, got, "- Figure: a bar chart")
		// empty captions are not rendered as bullets
		assert.NotContains(t, got, "\n-\n")
	})

	t.Run("ocr appended when novel", func(t *testing.T) {
		got := MergeFields("body", "scanned words", nil)
		assert.Contains(t, got, "OCR:\nscanned words")
	})

	t.Run("ocr suppressed when substring of raw", func(t *testing.T) {
		got := MergeFields("the quick brown fox", "quick brown", nil)
		assert.NotContains(t, got, "OCR:")
	})

	t.Run("whitespace-only ocr suppressed", func(t *testing.T) {
		got := MergeFields("body", "   ", nil)
		assert.NotContains(t, got, "OCR:")
	})

	t.Run("blocks separated by blank line", func(t *testing.T) {
		got := MergeFields("body", "novel ocr", []string{"cap"})
		blocks := strings.Split(got, "\n\n")
		require.Len(t, blocks, 3)
		assert.True(t, strings.HasPrefix(blocks[0], "TEXT:"))
		assert.True(t, strings.HasPrefix(blocks[1], "FIGURES/IMAGES:"))
		assert.True(t, strings.HasPrefix(blocks[2], "OCR:"))
	})
}

func TestWordTokens(t *testing.T) {
	assert.Equal(t, 0, WordTokens(""))
	assert.Equal(t, 0, WordTokens("   \n\t"))
	assert.Equal(t, 3, WordTokens("one  two\nthree"))
}

func TestSentences(t *testing.T) {
	got := Sentences("First point. Second point! Third? Fourth.", 3)
	require.Len(t, got, 3)
	assert.Equal(t, "First point.", got[0])
	assert.Equal(t, "Second point!", got[1])
	assert.Equal(t, "Third?", got[2])

	assert.Nil(t, Sentences("   ", 3))
	assert.Equal(t, []string{"no terminator"}, Sentences("no terminator", 3))
}

func TestSnippet(t *testing.T) {
	s := strings.Repeat("abcdefgh", 30) // 240 chars
	assert.Equal(t, 80, len(Snippet(s, 0, 80)))
	assert.Equal(t, 80, len(Snippet(s, 1, 80)))
	assert.Equal(t, "", Snippet(s, 3, 80))
}
