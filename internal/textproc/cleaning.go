// Package textproc cleans and merges the text fields extracted from a
// PDF page. The functions here are pure and total: any string input is
// accepted and the zero value maps to the zero value.
package textproc

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	horizontalWS  = regexp.MustCompile(`[\t\v\f\r ]+`)
	hyphenWrap    = regexp.MustCompile(`-\n\s*`)
	pageFooter    = regexp.MustCompile(`(?i)\n\s*Page\s+\d+\s*(/\s*\d+)?\s*\n`)
	sentenceSplit = regexp.MustCompile(`(?:[.!?])\s+`)
)

// CompactWhitespace collapses runs of spaces/tabs to a single space,
// trims every line and caps blank runs at two consecutive blank lines.
// Leading and trailing blank lines are dropped. Idempotent.
func CompactWhitespace(s string) string {
	if s == "" {
		return ""
	}
	s = horizontalWS.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blankRun := 0
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			blankRun = 0
			out = append(out, ln)
			continue
		}
		blankRun++
		if blankRun <= 2 {
			out = append(out, "")
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// StripArtifacts removes hyphenation line-wrap artifacts ("exam-\nple"
// becomes "example") and "Page N" / "Page N/M" header or footer lines.
// Conservative on purpose so meaningful content is never deleted.
func StripArtifacts(s string) string {
	if s == "" {
		return ""
	}
	s = hyphenWrap.ReplaceAllString(s, "")
	s = pageFooter.ReplaceAllString(s, "\n")
	return s
}

// MergeFields combines the raw text, OCR text and image captions of one
// page into a single page-context string. Captions get their own
// labeled block so figure content stays visible to the LLM; the OCR
// block is skipped when its content is already present in the raw text.
func MergeFields(raw, ocr string, captions []string) string {
	var parts []string

	if raw != "" {
		parts = append(parts, "TEXT:\n"+raw)
	}

	var bullets []string
	for _, c := range captions {
		if c != "" {
			bullets = append(bullets, "- "+c)
		}
	}
	if len(bullets) > 0 {
		parts = append(parts, "FIGURES/IMAGES:\n"+strings.Join(bullets, "\n"))
	}

	if ocr != "" && !strings.Contains(raw, strings.TrimSpace(ocr)) {
		parts = append(parts, "OCR:\n"+ocr)
	}

	merged := strings.Join(parts, "\n\n")
	merged = StripArtifacts(merged)
	return CompactWhitespace(merged)
}

// WordTokens counts whitespace-delimited tokens.
func WordTokens(s string) int {
	return len(strings.Fields(s))
}

// Sentences splits s into at most max sentences. Used by the flashcard
// fallback parser to synthesize cards from free text.
func Sentences(s string, max int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	locs := sentenceSplit.FindAllStringIndex(s, -1)
	var out []string
	start := 0
	for _, loc := range locs {
		sentence := strings.TrimSpace(s[start:loc[1]])
		if sentence != "" {
			out = append(out, sentence)
		}
		start = loc[1]
		if len(out) >= max {
			return out
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" && len(out) < max {
		out = append(out, tail)
	}
	return out
}

// Snippet returns the i-th fixed-size window of s, trimmed. Empty when
// the window starts past the end of s.
func Snippet(s string, i, size int) string {
	start := i * size
	if start >= len(s) {
		return ""
	}
	end := start + size
	if end > len(s) {
		end = len(s)
	}
	return strings.TrimSpace(s[start:end])
}

// Truncate caps s at max bytes. Used when formatting retrieval context
// blocks like "[Slide 3]: ...".
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// FormatSlideContext renders one retrieval context block. slideNum is
// 1-based for display.
func FormatSlideContext(label string, slideNum int, text string, max int) string {
	return fmt.Sprintf("[%s %d]: %s", label, slideNum, Truncate(text, max))
}
