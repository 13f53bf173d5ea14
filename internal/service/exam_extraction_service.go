package service

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hqdat/examlens/internal/model"
	"github.com/hqdat/examlens/internal/pdf"
	"github.com/hqdat/examlens/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	// Pages beyond maxAnalyzedPages are rendered but never sent to the
	// oracle; the first highDetailPages get the "high" fidelity hint since
	// questions concentrate at the front of a paper.
	maxAnalyzedPages = 8
	highDetailPages  = 5
)

// ExamExtractionService turns a scanned exam PDF into an ExamPaper and
// registers its answer key for later grading. Extraction is all-or-nothing:
// no partial exam is ever returned.
type ExamExtractionService interface {
	ExtractFromPDF(pdfBytes []byte) (*model.ExamPaper, error)
}

type examExtractionService struct {
	extractor pdf.Extractor
	oracle    VisionOracle
	registry  repository.ExamRegistry
}

func NewExamExtractionService(extractor pdf.Extractor, oracle VisionOracle, registry repository.ExamRegistry) ExamExtractionService {
	return &examExtractionService{extractor: extractor, oracle: oracle, registry: registry}
}

// oracleQuestion mirrors one entry of the JSON shape examAnalysisPrompt
// mandates. The oracle's id is ignored; questions are renumbered in order
// of appearance.
type oracleQuestion struct {
	ID                int             `json:"id"`
	Text              string          `json:"text"`
	Type              string          `json:"type"`
	Options           []string        `json:"options"`
	Points            *int            `json:"points"`
	Page              int             `json:"page"`
	HasIllustration   bool            `json:"has_illustration"`
	IllustrationIndex int             `json:"illustration_index"`
	IsContextBased    bool            `json:"is_context_based"`
	Answer            json.RawMessage `json:"answer"`
}

type oracleExam struct {
	Title     string           `json:"title"`
	Questions []oracleQuestion `json:"questions"`
}

func (s *examExtractionService) ExtractFromPDF(pdfBytes []byte) (*model.ExamPaper, error) {
	fullPages, err := s.extractor.RenderPages(pdfBytes)
	if err != nil {
		return nil, err
	}
	illustrations := s.extractor.ExtractIllustrations(pdfBytes)
	log.Info().Int("pages", len(fullPages)).Int("illustrationPages", len(illustrations)).Msg("Extracted images from PDF")

	analyzed := fullPages
	if len(analyzed) > maxAnalyzedPages {
		analyzed = analyzed[:maxAnalyzedPages]
	}
	pageImages := make([]PageImage, len(analyzed))
	for i, url := range analyzed {
		detail := "low"
		if i < highDetailPages {
			detail = "high"
		}
		pageImages[i] = PageImage{DataURL: url, Detail: detail}
	}

	rawContent, err := s.oracle.ExtractStructured(context.Background(), pageImages, examAnalysisPrompt)
	if err != nil {
		return nil, err
	}

	var exam oracleExam
	if err := json.Unmarshal([]byte(stripCodeFences(rawContent)), &exam); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleMalformed, err)
	}

	paper := s.assemble(&exam, fullPages, illustrations)
	s.registry.Put(paper.ExamID, paper.AnswerKey, pointsByQuestion(paper.Questions))
	log.Info().Str("examID", paper.ExamID).Int("questions", len(paper.Questions)).Int("keyEntries", len(paper.AnswerKey)).Msg("Exam registered")
	return paper, nil
}

func (s *examExtractionService) assemble(exam *oracleExam, fullPages []string, illustrations map[int][]string) *model.ExamPaper {
	questions := make([]model.Question, 0, len(exam.Questions))
	answerKey := make(map[string]string)
	totalPoints := 0

	for i, q := range exam.Questions {
		number := i + 1

		points := q.Points
		if points != nil && *points < 0 {
			log.Warn().Int("question", number).Int("points", *points).Msg("Negative point value reported, dropping it")
			points = nil
		}

		var image *string
		if q.HasIllustration {
			image = resolveIllustration(q.Page, q.IllustrationIndex, illustrations, fullPages, number)
		}

		questions = append(questions, model.Question{
			ID:      number,
			Text:    q.Text,
			Type:    questionType(q.Type),
			Options: q.Options,
			Points:  points,
			Image:   image,
		})
		if points != nil {
			totalPoints += *points
		}

		for key, value := range decodeAnswers(number, q.Answer) {
			answerKey[key] = value
		}
	}

	title := exam.Title
	if title == "" {
		title = "Exam Paper"
	}
	return &model.ExamPaper{
		Title:       title,
		Questions:   questions,
		TotalPoints: totalPoints,
		Images:      fullPages,
		AnswerKey:   answerKey,
		ExamID:      newExamID(),
	}
}

// resolveIllustration picks the image for a question that needs one: the
// reported illustration index on the reported page, else the first
// illustration on that page, else the full-page raster when the page has no
// extracted illustrations. An invalid page resolves to no image.
func resolveIllustration(page, index int, illustrations map[int][]string, fullPages []string, number int) *string {
	onPage := illustrations[page]
	switch {
	case index >= 0 && index < len(onPage):
		log.Info().Int("question", number).Int("page", page).Int("index", index).Msg("Question uses extracted illustration")
		return &onPage[index]
	case len(onPage) > 0:
		log.Info().Int("question", number).Int("page", page).Msg("Illustration index out of range, using first on page")
		return &onPage[0]
	case page >= 1 && page <= len(fullPages):
		log.Info().Int("question", number).Int("page", page).Msg("No extracted illustrations, using full page")
		return &fullPages[page-1]
	default:
		log.Warn().Int("question", number).Int("page", page).Msg("No image resolvable for question")
		return nil
	}
}

// decodeAnswers turns the oracle's answer field into normalized key entries.
// A plain value keys "<number>"; a subsection object keys "<number>-<label>"
// (e.g. "13-a)"). Null or absent answers contribute nothing.
func decodeAnswers(number int, raw json.RawMessage) map[string]string {
	entries := make(map[string]string)
	if len(raw) == 0 || string(raw) == "null" {
		return entries
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		entries[strconv.Itoa(number)] = NormalizeAnswer(single)
		return entries
	}
	var subsections map[string]string
	if err := json.Unmarshal(raw, &subsections); err == nil {
		for label, value := range subsections {
			entries[fmt.Sprintf("%d-%s", number, label)] = NormalizeAnswer(value)
		}
		return entries
	}
	// Bare numbers still grade by their textual form.
	var fallback any
	if err := json.Unmarshal(raw, &fallback); err == nil && fallback != nil {
		entries[strconv.Itoa(number)] = NormalizeAnswer(fmt.Sprintf("%v", fallback))
	}
	return entries
}

func questionType(reported string) string {
	if reported == "" {
		return "short_answer"
	}
	return reported
}

func pointsByQuestion(questions []model.Question) map[int]int {
	points := make(map[int]int, len(questions))
	for _, q := range questions {
		if q.Points != nil {
			points[q.ID] = *q.Points
		} else {
			points[q.ID] = 0
		}
	}
	return points
}

// newExamID mints a short opaque token. A nanosecond timestamp plus a random
// salt keeps two exams in the same process from ever aliasing.
func newExamID() string {
	salt := make([]byte, 8)
	_, _ = rand.Read(salt)
	seed := strconv.FormatInt(time.Now().UnixNano(), 10)
	sum := md5.Sum(append([]byte(seed), salt...))
	return hex.EncodeToString(sum[:])[:12]
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
