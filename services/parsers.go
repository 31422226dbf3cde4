package services

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"ai-tutor-backend/internal/textproc"
	"ai-tutor-backend/models"
)

// Tolerant parsers for LLM study-aid output. Model output drifts from
// the requested format constantly, so parsing runs an ordered chain of
// strategies and tops results up from the page context when everything
// else falls short. ParseFlashcards never returns fewer than 3 cards
// and ParseQuiz never fewer than 4 items for a non-empty page context.

var (
	flashQLine = regexp.MustCompile(`(?i)^(?:q(?:uestion)?\s*\d*\s*[:.)\-])\s*(.+)$`)
	flashALine = regexp.MustCompile(`(?i)^(?:a(?:nswer)?\s*\d*\s*[:.)\-])\s*(.+)$`)
	flashQMark = regexp.MustCompile(`(?im)^\s*q(?:uestion)?\s*\d*\s*[:.)\-]`)
	flashAMark = regexp.MustCompile(`(?im)^\s*a(?:nswer)?\s*\d*\s*[:.)\-]`)

	quizKeyLine    = regexp.MustCompile(`(?i)^(?:answers?|answer\s*key)\s*[:\-]\s*(.*)$`)
	quizKeyPair    = regexp.MustCompile(`(\d+)\s*[):.\-]\s*([A-D])`)
	quizQStart     = regexp.MustCompile(`(?i)^(?:q(?:uestion)?\s*(\d+)|(\d+))\s*[).:\-]\s*(.+)$`)
	quizOption     = regexp.MustCompile(`^([A-D])[).:\-]\s*(.+)$`)
	quizAnswerLine = regexp.MustCompile(`(?i)^(?:answer|correct\s*answer)\s*[:\-]\s*([A-D])`)

	optAnswerTag     = regexp.MustCompile(`(?i)\[Answer\s+[A-D]\]`)
	optBestAnswerTag = regexp.MustCompile(`(?i)\[Best\s+Answer:\s*[A-D]\]`)
	optIncorrectTag  = regexp.MustCompile(`(?i)\(incorrect[^)]*\)`)
	optCorrectTag    = regexp.MustCompile(`(?i)\(correct[^)]*\)`)
	anyWhitespace    = regexp.MustCompile(`\s+`)
)

// flashcardStrategy extracts cards from raw model output. Strategies
// run in order; the first one to find anything wins.
type flashcardStrategy struct {
	name  string
	parse func(raw string) []models.Flashcard
}

var flashcardStrategies = []flashcardStrategy{
	{"labeled-lines", parseFlashcardLines},
	{"labeled-blocks", parseFlashcardBlocks},
	{"sentences", parseFlashcardSentences},
}

// ParseFlashcards turns raw model output into Q/A cards, synthesizing
// from pageContext until at least 3 cards exist.
func ParseFlashcards(raw, pageContext string) []models.Flashcard {
	var cards []models.Flashcard
	for _, strat := range flashcardStrategies {
		cards = strat.parse(raw)
		if len(cards) > 0 {
			log.Printf("📇 Flashcard parser: %d cards via %s", len(cards), strat.name)
			break
		}
	}

	// Top up with summary snippets from the page itself.
	for len(cards) < 3 && strings.TrimSpace(pageContext) != "" {
		snippet := textproc.Snippet(pageContext, len(cards), 80)
		if snippet == "" {
			break
		}
		cards = append(cards, models.Flashcard{Q: "Summarize this part", A: snippet})
	}
	return cards
}

// parseFlashcardLines handles the requested "Q: ... / A: ..." format,
// tolerating numbering and label variants on each line.
func parseFlashcardLines(raw string) []models.Flashcard {
	var cards []models.Flashcard
	var currentQ, currentA string

	flush := func() {
		if currentQ != "" && currentA != "" {
			cards = append(cards, models.Flashcard{
				Q: strings.TrimSpace(currentQ),
				A: strings.TrimSpace(currentA),
			})
			currentQ, currentA = "", ""
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if mq := flashQLine.FindStringSubmatch(s); mq != nil {
			flush()
			currentQ = mq[1]
			continue
		}
		if ma := flashALine.FindStringSubmatch(s); ma != nil {
			currentA = ma[1]
			flush()
		}
	}
	flush()
	return cards
}

// parseFlashcardBlocks handles multi-line questions and answers: the
// text is split at question labels and each block is divided at its
// first answer label.
func parseFlashcardBlocks(raw string) []models.Flashcard {
	starts := flashQMark.FindAllStringIndex(raw, -1)
	if len(starts) == 0 {
		return nil
	}

	var cards []models.Flashcard
	for i, loc := range starts {
		end := len(raw)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		block := raw[loc[0]:end]

		aLoc := flashAMark.FindStringIndex(block)
		if aLoc == nil {
			continue
		}
		q := stripLabels(block[:aLoc[0]], flashQMark)
		a := stripLabels(block[aLoc[0]:], flashAMark)
		if q != "" && a != "" {
			cards = append(cards, models.Flashcard{Q: q, A: a})
		}
	}
	return cards
}

// parseFlashcardSentences is the last resort: each leading sentence of
// free-form output becomes the answer to a generic question.
func parseFlashcardSentences(raw string) []models.Flashcard {
	var cards []models.Flashcard
	for _, s := range textproc.Sentences(raw, 3) {
		cards = append(cards, models.Flashcard{
			Q: "What is a key point from the page?",
			A: s,
		})
	}
	return cards
}

func stripLabels(s string, marker *regexp.Regexp) string {
	return strings.TrimSpace(marker.ReplaceAllString(s, ""))
}

// ParseQuiz turns raw model output into multiple-choice items,
// synthesizing from pageContext until at least 4 items exist. Every
// returned item has an answer: the "Answers:" key line wins, then an
// inline "Answer: X" line, then the first option.
func ParseQuiz(raw, pageContext string) []models.QuizItem {
	lines := nonBlankLines(raw)

	// Answer key, e.g. "Answers: 1) B, 2) D, 3) A"
	answerKey := map[int]string{}
	for _, l := range lines {
		if m := quizKeyLine.FindStringSubmatch(l); m != nil {
			for _, pair := range quizKeyPair.FindAllStringSubmatch(m[1], -1) {
				num, err := strconv.Atoi(pair[1])
				if err != nil {
					continue
				}
				answerKey[num] = strings.ToUpper(pair[2])
			}
		}
	}

	var items []models.QuizItem
	var current *models.QuizItem
	var currentNum int

	flush := func() {
		if current != nil && current.Question != "" && len(current.Options) > 0 {
			if current.Answer == "" {
				current.Answer = current.Options[0]
			}
			items = append(items, *current)
		}
		current = nil
	}

	for _, l := range lines {
		if mq := quizQStart.FindStringSubmatch(l); mq != nil {
			flush()
			numText := mq[1]
			if numText == "" {
				numText = mq[2]
			}
			currentNum, _ = strconv.Atoi(numText)
			if currentNum == 0 {
				currentNum = len(items) + 1
			}
			current = &models.QuizItem{Question: strings.TrimSpace(mq[3])}
			continue
		}

		if mo := quizOption.FindStringSubmatch(l); mo != nil && current != nil {
			letter := mo[1]
			text := cleanOptionText(mo[2])
			current.Options = append(current.Options, text)
			if answerKey[currentNum] == letter {
				current.Answer = text
			}
			continue
		}

		if ma := quizAnswerLine.FindStringSubmatch(l); ma != nil && current != nil && len(current.Options) > 0 {
			idx := int(strings.ToUpper(ma[1])[0] - 'A')
			if idx >= 0 && idx < len(current.Options) {
				current.Answer = current.Options[idx]
			}
		}
	}
	flush()

	for len(items) < 4 {
		items = append(items, synthesizeQuizItem(pageContext, len(items)))
	}
	return items
}

// cleanOptionText strips answer labels and correctness annotations the
// model sometimes appends despite instructions.
func cleanOptionText(text string) string {
	text = optAnswerTag.ReplaceAllString(text, "")
	text = optBestAnswerTag.ReplaceAllString(text, "")
	text = optIncorrectTag.ReplaceAllString(text, "")
	text = optCorrectTag.ReplaceAllString(text, "")
	return strings.TrimSpace(anyWhitespace.ReplaceAllString(text, " "))
}

// synthesizeQuizItem builds a self-answerable item from a window of
// the page context. Used to top quizzes up to the minimum size.
func synthesizeQuizItem(pageContext string, n int) models.QuizItem {
	start := n * 60
	base := ""
	if start < len(pageContext) {
		base = strings.TrimSpace(textproc.Truncate(pageContext[start:], 80))
	}
	if base == "" {
		base = "the page content"
	}
	correct := "Mentions: " + base
	return models.QuizItem{
		Question: "Which of the following is supported by the page?",
		Options:  []string{correct, "Contradictory claim 1", "Contradictory claim 2", "Not mentioned"},
		Answer:   correct,
	}
}

func nonBlankLines(raw string) []string {
	var out []string
	for _, l := range strings.Split(raw, "\n") {
		if s := strings.TrimSpace(l); s != "" {
			out = append(out, s)
		}
	}
	return out
}
