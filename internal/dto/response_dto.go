package dto

type QuestionResponse struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
	Points  *int     `json:"points,omitempty"`
	Image   *string  `json:"image,omitempty"`
}

type ExamPaperResponse struct {
	Title       string             `json:"title"`
	Questions   []QuestionResponse `json:"questions"`
	TotalPoints int                `json:"total_points"`
	Images      []string           `json:"images"`
	AnswerKey   map[string]string  `json:"answer_key,omitempty"`
	ExamID      string             `json:"exam_id,omitempty"`
}

// AnswerResult is always returned for a well-formed submission, graded or
// not. IsCorrect stays null when no answer key covers the question.
// CorrectAnswer is only revealed on an incorrect answer.
type AnswerResult struct {
	QuestionID     QuestionID `json:"question_id"`
	Submitted      bool       `json:"submitted"`
	IsCorrect      *bool      `json:"is_correct"`
	Message        string     `json:"message"`
	CorrectAnswer  *string    `json:"correct_answer,omitempty"`
	PointsAwarded  int        `json:"points_awarded"`
	PointsPossible int        `json:"points_possible"`
}

type TutorResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
}

type HealthResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
