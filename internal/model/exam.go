package model

// Question is one extracted exam question. ID is a dense 1-based sequence
// assigned during extraction; whatever numbering the vision model reports is
// discarded. Subsections (a), b), ...) are merged into Text by the model.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"` // "multiple_choice", "short_answer", "essay"
	Options []string `json:"options,omitempty"`
	Points  *int     `json:"points,omitempty"`
	Image   *string  `json:"image,omitempty"` // data URL of the attached illustration
}

// ExamPaper is the fully assembled exam. Immutable once built; only the
// answer key and point allocation outlive the upload response, via the
// exam registry.
type ExamPaper struct {
	Title       string            `json:"title"`
	Questions   []Question        `json:"questions"`
	TotalPoints int               `json:"total_points"`
	Images      []string          `json:"images"` // full-page rasters as data URLs
	AnswerKey   map[string]string `json:"answer_key,omitempty"`
	ExamID      string            `json:"exam_id,omitempty"`
}
