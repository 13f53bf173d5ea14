package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hqdat/examlens/internal/dto"
	"github.com/hqdat/examlens/internal/service"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

type ExamController struct {
	extractionService service.ExamExtractionService
	gradingService    service.GradingService
	tutorService      service.TutorService
}

func NewExamController(
	extractionService service.ExamExtractionService,
	gradingService service.GradingService,
	tutorService service.TutorService,
) *ExamController {
	return &ExamController{
		extractionService: extractionService,
		gradingService:    gradingService,
		tutorService:      tutorService,
	}
}

// UploadExam godoc
// @Summary Upload and parse an exam PDF
// @Description Renders the PDF, has the vision model extract questions and answers, and registers the answer key for grading.
// @Tags Exams
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Exam paper PDF"
// @Success 200 {object} dto.ExamPaperResponse
// @Failure 400 {object} dto.ErrorResponse "Missing file or not a PDF"
// @Failure 500 {object} dto.ErrorResponse "Extraction failed"
// @Router /upload [post]
func (c *ExamController) UploadExam(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "No file provided", Details: []string{err.Error()}})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Only PDF files are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read uploaded file", Details: []string{err.Error()}})
		return
	}
	defer file.Close()
	pdfBytes, err := io.ReadAll(file)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read uploaded file", Details: []string{err.Error()}})
		return
	}

	log.Info().Str("filename", fileHeader.Filename).Int("bytes", len(pdfBytes)).Msg("Received exam upload")

	paper, err := c.extractionService.ExtractFromPDF(pdfBytes)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("UploadExam: extraction failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Error parsing PDF", Details: []string{err.Error()}})
		return
	}

	var resp dto.ExamPaperResponse
	copier.Copy(&resp, paper)
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAnswer godoc
// @Summary Submit an answer for grading
// @Description Grades the answer against the uploaded exam's answer key. Always returns a result; without a key the submission comes back ungraded.
// @Tags Exams
// @Accept json
// @Produce json
// @Param submission body dto.AnswerSubmission true "Question identifier (\"5\" or \"13-a)\"), answer text and exam_id"
// @Success 200 {object} dto.AnswerResult
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Router /submit-answer [post]
func (c *ExamController) SubmitAnswer(ctx *gin.Context) {
	var req dto.AnswerSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAnswer: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result := c.gradingService.GradeSubmission(req)
	ctx.JSON(http.StatusOK, result)
}

// AskTutor godoc
// @Summary Ask an AI tutor about a question
// @Description Routes the question to the selected backend ("openai" or "gemini") and returns its explanation.
// @Tags Tutor
// @Accept json
// @Produce json
// @Param request body dto.TutorRequest true "Question text, the student's question and the backend selector"
// @Success 200 {object} dto.TutorResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid body or unknown model selector"
// @Failure 500 {object} dto.ErrorResponse "Backend request failed"
// @Router /ask-ai [post]
func (c *ExamController) AskTutor(ctx *gin.Context) {
	var req dto.TutorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	log.Info().Str("model", req.Model).Msg("Received tutor request")

	answer, err := c.tutorService.Explain(req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownTutorModel) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Message: fmt.Sprintf("Invalid AI model: %q. Must be 'openai' or 'gemini'", req.Model),
			})
			return
		}
		log.Error().Err(err).Str("model", req.Model).Msg("AskTutor: backend error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to query tutor backend", Details: []string{err.Error()}})
		return
	}

	ctx.JSON(http.StatusOK, dto.TutorResponse{Response: answer, Model: req.Model})
}

// Health godoc
// @Summary Service liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router / [get]
func (c *ExamController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Message: "Exam Paper API is running"})
}
