package dto

import "encoding/json"

// QuestionID accepts either a bare number (5) or a string ("5", "13-a)") so
// that whole-question and subsection submissions share one field.
type QuestionID string

func (q *QuestionID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*q = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*q = QuestionID(n.String())
	return nil
}

// AnswerSubmission is a student's answer to one question of a previously
// uploaded exam. QuestionText is informational only.
type AnswerSubmission struct {
	QuestionID   QuestionID `json:"question_id" binding:"required"`
	Answer       string     `json:"answer" binding:"required"`
	QuestionText string     `json:"question_text"`
	ExamID       string     `json:"exam_id"`
}

// TutorRequest asks one of the tutor backends to explain a question.
type TutorRequest struct {
	QuestionText    string  `json:"question_text" binding:"required"`
	UserQuestion    string  `json:"user_question" binding:"required"`
	Model           string  `json:"model" binding:"required"` // "openai" or "gemini"
	QuestionContext *string `json:"question_context"`
}
