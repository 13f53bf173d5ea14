package service

import (
	"strings"
	"testing"

	"github.com/hqdat/examlens/internal/dto"
	"github.com/hqdat/examlens/internal/repository"
)

func seededRegistry() repository.ExamRegistry {
	registry := repository.NewExamRegistry()
	registry.Put("exam-1",
		map[string]string{"1": "8", "5": "B", "13-a)": "9192", "13-b)": "4596"},
		map[int]int{1: 1, 5: 2, 13: 4},
	)
	return registry
}

func TestGradeWithoutExamIDIsNeutral(t *testing.T) {
	svc := NewGradingService(seededRegistry())

	result := svc.GradeSubmission(dto.AnswerSubmission{QuestionID: "5", Answer: "B"})
	if !result.Submitted {
		t.Error("expected submitted=true")
	}
	if result.IsCorrect != nil {
		t.Errorf("expected nil is_correct, got %v", *result.IsCorrect)
	}
	if result.PointsAwarded != 0 || result.PointsPossible != 0 {
		t.Errorf("expected zero points, got awarded=%d possible=%d", result.PointsAwarded, result.PointsPossible)
	}
	if !strings.Contains(result.Message, "no answer key") {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestGradeUnknownExamIDIsNeutral(t *testing.T) {
	svc := NewGradingService(seededRegistry())

	result := svc.GradeSubmission(dto.AnswerSubmission{QuestionID: "5", Answer: "B", ExamID: "nope"})
	if result.IsCorrect != nil {
		t.Errorf("expected nil is_correct, got %v", *result.IsCorrect)
	}
}

func TestGradeMissingKeyEntryIsNeutral(t *testing.T) {
	svc := NewGradingService(seededRegistry())

	result := svc.GradeSubmission(dto.AnswerSubmission{QuestionID: "7", Answer: "whatever", ExamID: "exam-1"})
	if !result.Submitted {
		t.Error("expected submitted=true")
	}
	if result.IsCorrect != nil {
		t.Errorf("expected nil is_correct, got %v", *result.IsCorrect)
	}
	if result.CorrectAnswer != nil {
		t.Errorf("ungraded submission must not reveal an answer, got %q", *result.CorrectAnswer)
	}
	if !strings.Contains(result.Message, "not found") {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestGradeMultipleChoiceCaseInsensitive(t *testing.T) {
	svc := NewGradingService(seededRegistry())

	result := svc.GradeSubmission(dto.AnswerSubmission{QuestionID: "5", Answer: "b", ExamID: "exam-1"})
	if result.IsCorrect == nil || !*result.IsCorrect {
		t.Fatal("expected correct for case-insensitive letter match")
	}
	if result.PointsAwarded != 2 || result.PointsPossible != 2 {
		t.Errorf("expected 2/2 points, got %d/%d", result.PointsAwarded, result.PointsPossible)
	}
	if result.CorrectAnswer != nil {
		t.Errorf("correct submission must not reveal the answer, got %q", *result.CorrectAnswer)
	}
	if result.Message != "Correct! You earned 2 points." {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestGradeIncorrectRevealsAnswer(t *testing.T) {
	svc := NewGradingService(seededRegistry())

	result := svc.GradeSubmission(dto.AnswerSubmission{QuestionID: "5", Answer: "C", ExamID: "exam-1"})
	if result.IsCorrect == nil || *result.IsCorrect {
		t.Fatal("expected incorrect")
	}
	if result.CorrectAnswer == nil || *result.CorrectAnswer != "B" {
		t.Errorf("expected revealed answer B, got %v", result.CorrectAnswer)
	}
	if result.PointsAwarded != 0 || result.PointsPossible != 2 {
		t.Errorf("expected 0/2 points, got %d/%d", result.PointsAwarded, result.PointsPossible)
	}
	if result.Message != "Incorrect. You earned 0 out of 2 points." {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestGradeSubsectionSplitsPoints(t *testing.T) {
	svc := NewGradingService(seededRegistry())

	result := svc.GradeSubmission(dto.AnswerSubmission{QuestionID: "13-a)", Answer: "9192", ExamID: "exam-1"})
	if result.IsCorrect == nil || !*result.IsCorrect {
		t.Fatal("expected correct")
	}
	// 4 points over 2 subsections.
	if result.PointsPossible != 2 || result.PointsAwarded != 2 {
		t.Errorf("expected 2/2 points, got %d/%d", result.PointsAwarded, result.PointsPossible)
	}
}

func TestGradeSubsectionFloorDivisionLosesRemainder(t *testing.T) {
	registry := repository.NewExamRegistry()
	registry.Put("exam-2",
		map[string]string{"4-a)": "1", "4-b)": "2", "4-c)": "3"},
		map[int]int{4: 5},
	)
	svc := NewGradingService(registry)

	result := svc.GradeSubmission(dto.AnswerSubmission{QuestionID: "4-b)", Answer: "2", ExamID: "exam-2"})
	if result.PointsPossible != 1 || result.PointsAwarded != 1 {
		t.Errorf("expected floor(5/3)=1 point, got %d/%d", result.PointsAwarded, result.PointsPossible)
	}
	if result.Message != "Correct! You earned 1 point." {
		t.Errorf("expected singular wording, got %q", result.Message)
	}
}

func TestGradeNormalizesSubmittedEquation(t *testing.T) {
	svc := NewGradingService(seededRegistry())

	result := svc.GradeSubmission(dto.AnswerSubmission{QuestionID: "1", Answer: "48 / 6 = 8", ExamID: "exam-1"})
	if result.IsCorrect == nil || !*result.IsCorrect {
		t.Fatal("expected equation answer to normalize to 8 and grade correct")
	}
}

func TestGradeQuestionWithoutPointsAllocation(t *testing.T) {
	registry := repository.NewExamRegistry()
	registry.Put("exam-3", map[string]string{"2": "x"}, map[int]int{2: 0})
	svc := NewGradingService(registry)

	result := svc.GradeSubmission(dto.AnswerSubmission{QuestionID: "2", Answer: "x", ExamID: "exam-3"})
	if result.IsCorrect == nil || !*result.IsCorrect {
		t.Fatal("expected correct")
	}
	if result.PointsAwarded != 0 || result.PointsPossible != 0 {
		t.Errorf("expected 0/0 points, got %d/%d", result.PointsAwarded, result.PointsPossible)
	}
}

func TestGradeNonNumericIdentifier(t *testing.T) {
	registry := repository.NewExamRegistry()
	registry.Put("exam-4", map[string]string{"abc": "yes"}, map[int]int{})
	svc := NewGradingService(registry)

	result := svc.GradeSubmission(dto.AnswerSubmission{QuestionID: "abc", Answer: "yes", ExamID: "exam-4"})
	if result.IsCorrect == nil || !*result.IsCorrect {
		t.Fatal("expected correct")
	}
	if result.PointsPossible != 0 {
		t.Errorf("expected zero allocation for non-numeric identifier, got %d", result.PointsPossible)
	}
}
