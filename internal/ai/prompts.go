package ai

import (
	"fmt"
	"strings"
)

// Prompt templates for the tutor generation operations. The exact label
// vocabulary matters: the flashcard and quiz parsers recognize "Q:" /
// "A:" pairs, "A)".."D)" options and the "Answers: 1) B" key line, and
// the QA citation extractor recognizes "[Slide N]" markers.

const explainPageTemplate = "You are a friendly, clear, and intuitive tutor.\n" +
	"Explain the topic in a very simple, short, and intuitive way.\n\n" +
	"Format:\n" +
	"# Title\n\n" +
	"- 4–6 short bullet points (no long sentences)\n" +
	"**Key Takeaway:** One-line summary.\n\n" +
	"Guidelines:\n" +
	"- Use everyday analogies when helpful\n" +
	"- No jargon unless absolutely needed\n" +
	"- No paragraphs; use clean line breaks\n" +
	"- Calm, confident, and clear tone\n\n" +
	"[PAGE CONTEXT]\n%s\n\n"

const answerWithCitationsTemplate = "You are a knowledgeable tutor assistant. Answer the question using your general knowledge and expertise.\n" +
	"Additionally, if the provided slide contexts contain relevant information, incorporate it and cite specific slides.\n\n" +
	"Instructions:\n" +
	"- Provide a complete, helpful answer using your knowledge\n" +
	"- Pay special attention to FIGURES/IMAGES sections - these describe what's shown in figures, charts, and diagrams\n" +
	"- When slide content is relevant (especially figure descriptions), integrate it and cite as [Slide X]\n" +
	"- Only cite slides that you actually used in your answer\n" +
	"- If slides describe specific figures/images, reference those details in your answer\n" +
	"- If no slides are relevant, just answer with your general knowledge (no citations needed)\n" +
	"- Be clear, concise, and educational\n\n" +
	"[SLIDE CONTEXTS]\n%s\n\n" +
	"[QUESTION]\n%s\n\n" +
	"[ANSWER]"

const flashcardsTemplate = "From the context, produce 5 high-quality flashcards in the exact format:\n" +
	"Q: <short question>\nA: <concise answer>\n" +
	"Focus on definitions, why/how, and key contrasts.\n\n" +
	"[CONTEXT]\n%s\n\n[FLASHCARDS]"

const quizTemplate = "From the context, generate 3 multiple-choice questions with options A–D.\n" +
	"Keep stems short and options plausible (one best answer).\n\n" +
	"CRITICAL: Write ONLY the option text itself. Do NOT include:\n" +
	"- Answer labels like [Answer C] or [Best Answer: B]\n" +
	"- Explanations like (incorrect) or (correct)\n" +
	"- Metadata or annotations of any kind\n\n" +
	"Format:\n" +
	"1) Question text here?\n" +
	"A) First option\n" +
	"B) Second option\n" +
	"C) Third option\n" +
	"D) Fourth option\n\n" +
	"After all questions, include an 'Answers:' line like: Answers: 1) B, 2) D, 3) A.\n\n" +
	"[CONTEXT]\n%s\n\n[QUIZ]"

const cheatsheetTemplate = "You are a structured content generator. Create a visually clean, minimal, and concise cheatsheet.\n\n" +
	"Guidelines:\n" +
	"- Use clear section headers with icon pointers (e.g., \U0001F4CC Concepts, \U0001F511 Formulas, \U0001F4A1 Syntax, \U0001F4CB Examples, ⚡ Shortcuts)\n" +
	"- Prefer bullet points, tables, and code blocks over paragraphs\n" +
	"- Keep text short and crisp, but informative\n" +
	"- Include common pitfalls, best practices, or mnemonics if relevant\n" +
	"- Avoid unnecessary explanations — assume the reader knows basics\n\n" +
	"Constraints:\n" +
	"- Keep it compact; no paragraphs\n" +
	"- Prefer 1-line bullets; total length <= 150 words\n\n" +
	"[CONTEXT]\n%s\n\n[CHEATSHEET]"

// RenderExplainPrompt fills the explain template with a page context.
func RenderExplainPrompt(pageContext string) string {
	return fmt.Sprintf(explainPageTemplate, pageContext)
}

// RenderAnswerPrompt fills the QA template with the joined context
// blocks and the question.
func RenderAnswerPrompt(contexts, question string) string {
	return fmt.Sprintf(answerWithCitationsTemplate, contexts, question)
}

// RenderFlashcardsPrompt fills the flashcard template.
func RenderFlashcardsPrompt(pageContext string) string {
	return fmt.Sprintf(flashcardsTemplate, pageContext)
}

// RenderQuizPrompt fills the quiz template.
func RenderQuizPrompt(pageContext string) string {
	return fmt.Sprintf(quizTemplate, pageContext)
}

// RenderCheatsheetPrompt fills the cheatsheet template.
func RenderCheatsheetPrompt(pageContext string) string {
	return fmt.Sprintf(cheatsheetTemplate, pageContext)
}

// RenderCtxBlocks joins context blocks with a clear separator for the
// LLM. Blank blocks are dropped.
func RenderCtxBlocks(contexts []string) string {
	blocks := make([]string, 0, len(contexts))
	for _, c := range contexts {
		if c = strings.TrimSpace(c); c != "" {
			blocks = append(blocks, c)
		}
	}
	return strings.Join(blocks, "\n---\n")
}
