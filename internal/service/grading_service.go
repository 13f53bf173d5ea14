package service

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/hqdat/examlens/internal/dto"
	"github.com/hqdat/examlens/internal/repository"
	"github.com/rs/zerolog/log"
)

// GradingService compares a submission against the registered answer key.
// It always returns a well-formed result: a submission without a usable key
// comes back ungraded (IsCorrect nil), never as an error.
type GradingService interface {
	GradeSubmission(submission dto.AnswerSubmission) dto.AnswerResult
}

type gradingService struct {
	registry repository.ExamRegistry
}

func NewGradingService(registry repository.ExamRegistry) GradingService {
	return &gradingService{registry: registry}
}

func (s *gradingService) GradeSubmission(sub dto.AnswerSubmission) dto.AnswerResult {
	result := dto.AnswerResult{QuestionID: sub.QuestionID, Submitted: true}

	var entry repository.ExamKey
	ok := false
	if sub.ExamID != "" {
		entry, ok = s.registry.Get(sub.ExamID)
	}
	if !ok {
		result.Message = "Answer submitted successfully (no answer key available for grading)"
		return result
	}

	questionID := string(sub.QuestionID)
	correctAnswer, found := entry.AnswerKey[questionID]
	if !found {
		result.Message = "Answer submitted (correct answer not found in answer key)"
		return result
	}

	userAnswer := NormalizeAnswer(sub.Answer)
	if userAnswer != strings.TrimSpace(sub.Answer) {
		log.Info().Str("raw", sub.Answer).Str("normalized", userAnswer).Msg("Normalized submitted answer")
	}
	correct := strings.TrimSpace(correctAnswer)

	// A single stored letter means multiple choice answered by letter;
	// those compare case-insensitively. Everything else requires exact
	// equality after normalization.
	var isCorrect bool
	if isSingleLetter(correct) {
		isCorrect = strings.EqualFold(userAnswer, correct)
	} else {
		isCorrect = userAnswer == correct
	}
	result.IsCorrect = &isCorrect

	pointsPossible := resolvePoints(questionID, entry)
	result.PointsPossible = pointsPossible
	if isCorrect {
		result.PointsAwarded = pointsPossible
		result.Message = fmt.Sprintf("Correct! You earned %d %s.", pointsPossible, pointWord(pointsPossible))
	} else {
		result.Message = fmt.Sprintf("Incorrect. You earned 0 out of %d %s.", pointsPossible, pointWord(pointsPossible))
		result.CorrectAnswer = &correct
	}
	return result
}

// resolvePoints looks up the main question's allocation and, for a
// subsection submission, splits it evenly across that question's key
// entries. Floor division: a 4-point question with 3 subsections grades 1
// point each and the remainder is never awarded.
func resolvePoints(questionID string, entry repository.ExamKey) int {
	mainPart := questionID
	isSubsection := false
	if idx := strings.Index(questionID, "-"); idx != -1 {
		mainPart = questionID[:idx]
		isSubsection = true
	}
	mainNumber, err := strconv.Atoi(mainPart)
	if err != nil {
		log.Warn().Str("questionID", questionID).Msg("Non-numeric question identifier, grading with zero points")
		return 0
	}

	total := entry.PointsByQuestion[mainNumber]
	if !isSubsection {
		return total
	}

	prefix := mainPart + "-"
	subsections := 0
	for key := range entry.AnswerKey {
		if strings.HasPrefix(key, prefix) {
			subsections++
		}
	}
	if subsections == 0 {
		return total
	}
	return total / subsections
}

func isSingleLetter(s string) bool {
	return len(s) == 1 && unicode.IsLetter(rune(s[0]))
}

func pointWord(n int) string {
	if n == 1 {
		return "point"
	}
	return "points"
}
