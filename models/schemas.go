package models

// Request/response payloads for the HTTP API.

// QARequest asks a question against an ingested document. PageID, when
// set, pins the current slide (0-based) so its context is prioritized.
type QARequest struct {
	Question string `json:"question" binding:"required"`
	PageID   *int   `json:"page_id"`
	K        int    `json:"k"`
	Model    string `json:"model"`
}

// QAResponse carries the generated answer plus the citations actually
// used by the model, extracted from the answer text.
type QAResponse struct {
	Answer       string     `json:"answer"`
	Citations    []Citation `json:"citations"`
	UsedContexts []string   `json:"used_contexts"`
}

// StudyAidRequest selects a page (0-based) for explain/flashcards/quiz/
// cheatsheet generation, with an optional model override.
type StudyAidRequest struct {
	PageID int    `json:"page_id"`
	Model  string `json:"model"`
}

// ExplainResponse is a generated page explanation.
type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

// FlashcardsResponse always carries at least 3 cards for any non-empty
// page context.
type FlashcardsResponse struct {
	Flashcards []Flashcard `json:"flashcards"`
}

// QuizResponse always carries at least 4 items for any non-empty page
// context.
type QuizResponse struct {
	Quiz []QuizItem `json:"quiz"`
}

// CheatsheetResponse is a generated markdown cheatsheet.
type CheatsheetResponse struct {
	Cheatsheet string `json:"cheatsheet"`
}

// IngestResponse reports the outcome of a document upload. TaskID is
// set when processing was enqueued instead of done inline.
type IngestResponse struct {
	DocID  string `json:"doc_id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Pages  int    `json:"pages,omitempty"`
	TaskID string `json:"task_id,omitempty"`
}

// DocumentSummary is the list view of an ingested document.
type DocumentSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Pages  int    `json:"pages"`
}
