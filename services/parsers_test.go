package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = "Graphs model pairwise relations between objects. A tree is a connected acyclic graph. " +
	"Breadth-first search visits vertices in order of distance from the source. " +
	"Dijkstra's algorithm computes shortest paths for non-negative edge weights."

func TestParseFlashcards(t *testing.T) {
	t.Run("labeled lines", func(t *testing.T) {
		raw := "Q1: What is a graph?\n" +
			"A1: A set of vertices and edges.\n" +
			"Q2: What is a tree?\n" +
			"A2: A connected acyclic graph.\n" +
			"Q3: What does BFS compute?\n" +
			"A3: Distances from the source.\n"

		cards := ParseFlashcards(raw, samplePage)
		require.Len(t, cards, 3)
		assert.Equal(t, "What is a graph?", cards[0].Q)
		assert.Equal(t, "A set of vertices and edges.", cards[0].A)
		assert.Equal(t, "What does BFS compute?", cards[2].Q)
	})

	t.Run("multi-line blocks", func(t *testing.T) {
		raw := "Question 1:\nWhat is a graph?\nAnswer:\nA set of vertices\nand edges.\n" +
			"Question 2:\nWhat is a tree?\nAnswer:\nA connected acyclic graph.\n"

		cards := ParseFlashcards(raw, samplePage)
		require.GreaterOrEqual(t, len(cards), 3)
		assert.Equal(t, "What is a graph?", cards[0].Q)
		assert.Contains(t, cards[0].A, "vertices")
		assert.Contains(t, cards[0].A, "edges")
	})

	t.Run("sentence fallback", func(t *testing.T) {
		raw := "Graphs model relations. Trees are acyclic. Queues are FIFO structures."

		cards := ParseFlashcards(raw, samplePage)
		require.Len(t, cards, 3)
		for _, c := range cards {
			assert.Equal(t, "What is a key point from the page?", c.Q)
		}
		assert.Equal(t, "Graphs model relations.", cards[0].A)
	})

	t.Run("synthesized from page context", func(t *testing.T) {
		cards := ParseFlashcards("", samplePage)
		require.Len(t, cards, 3)
		for _, c := range cards {
			assert.Equal(t, "Summarize this part", c.Q)
			assert.NotEmpty(t, c.A)
		}
		assert.Equal(t, strings.TrimSpace(samplePage[:80]), cards[0].A)
	})

	t.Run("empty everything", func(t *testing.T) {
		cards := ParseFlashcards("", "   ")
		assert.Empty(t, cards)
	})
}

func TestParseQuiz(t *testing.T) {
	t.Run("answer key line", func(t *testing.T) {
		raw := "1) What is 2+2?\n" +
			"A) 3\nB) 4\nC) 5\nD) 6\n" +
			"2) What is the capital of France?\n" +
			"A) Paris\nB) London\nC) Rome\nD) Berlin\n" +
			"Answers: 1) B, 2) A\n"

		items := ParseQuiz(raw, samplePage)
		require.GreaterOrEqual(t, len(items), 4)
		assert.Equal(t, "What is 2+2?", items[0].Question)
		assert.Equal(t, []string{"3", "4", "5", "6"}, items[0].Options)
		assert.Equal(t, "4", items[0].Answer)
		assert.Equal(t, "Paris", items[1].Answer)
	})

	t.Run("inline answer line", func(t *testing.T) {
		raw := "Question 1: Pick the FIFO structure\n" +
			"A) Stack\nB) Queue\nC) Heap\nD) Set\n" +
			"Answer: B\n"

		items := ParseQuiz(raw, samplePage)
		assert.Equal(t, "Queue", items[0].Answer)
	})

	t.Run("option annotations stripped", func(t *testing.T) {
		raw := "1) Capital of France?\n" +
			"A) Paris [Answer A]\n" +
			"B) London (incorrect but plausible)\n" +
			"C) Rome (correct-sounding)\n" +
			"D) Berlin\n"

		items := ParseQuiz(raw, samplePage)
		assert.Equal(t, "Paris", items[0].Options[0])
		assert.Equal(t, "London", items[0].Options[1])
		assert.Equal(t, "Rome", items[0].Options[2])
	})

	t.Run("defaults to first option", func(t *testing.T) {
		raw := "1) Anything?\nA) first\nB) second\n"

		items := ParseQuiz(raw, samplePage)
		assert.Equal(t, "first", items[0].Answer)
	})

	t.Run("synthesized to minimum size", func(t *testing.T) {
		items := ParseQuiz("", samplePage)
		require.Len(t, items, 4)
		for _, it := range items {
			require.Len(t, it.Options, 4)
			assert.Equal(t, "Which of the following is supported by the page?", it.Question)
			assert.Equal(t, it.Options[0], it.Answer)
			assert.True(t, strings.HasPrefix(it.Answer, "Mentions: "))
		}
		// Windows advance through the page so the items differ.
		assert.NotEqual(t, items[0].Answer, items[1].Answer)
	})

	t.Run("short page still yields items", func(t *testing.T) {
		items := ParseQuiz("", "tiny")
		require.Len(t, items, 4)
		assert.Equal(t, "Mentions: tiny", items[0].Answer)
		assert.Equal(t, "Mentions: the page content", items[3].Answer)
	})
}

func TestCleanOptionText(t *testing.T) {
	assert.Equal(t, "Paris", cleanOptionText("Paris  [Best Answer: A]"))
	assert.Equal(t, "London", cleanOptionText("London (incorrect, distractor)"))
	assert.Equal(t, "spaced out", cleanOptionText("  spaced   out  "))
}
