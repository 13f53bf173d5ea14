package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/hqdat/examlens/config"
	"github.com/hqdat/examlens/internal/dto"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

var ErrUnknownTutorModel = errors.New("unknown tutor model")

// TutorService explains exam questions to students through one of two
// external backends, selected per request: "openai" or "gemini". A missing
// credential degrades to an explanatory message instead of an error.
type TutorService interface {
	Explain(req dto.TutorRequest) (string, error)
}

type tutorService struct {
	cfg            *config.Config
	gemini         *genai.GenerativeModel
	httpc          *http.Client
	openAIEndpoint string
}

func NewTutorService(cfg *config.Config) (TutorService, error) {
	svc := &tutorService{
		cfg:            cfg,
		httpc:          &http.Client{Timeout: 30 * time.Second},
		openAIEndpoint: "https://api.openai.com/v1/chat/completions",
	}
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Gemini tutor backend will be non-functional.")
		return svc, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	svc.gemini = client.GenerativeModel(cfg.Gemini.Model)
	return svc, nil
}

func (s *tutorService) Explain(req dto.TutorRequest) (string, error) {
	questionContext := req.QuestionText
	if req.QuestionContext != nil && *req.QuestionContext != "" {
		questionContext += "\n" + *req.QuestionContext
	}

	switch strings.ToLower(strings.TrimSpace(req.Model)) {
	case "openai":
		return s.explainWithOpenAI(req.UserQuestion, questionContext)
	case "gemini":
		return s.explainWithGemini(req.UserQuestion, questionContext)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTutorModel, req.Model)
	}
}

func (s *tutorService) explainWithOpenAI(question, questionContext string) (string, error) {
	if s.cfg.OpenAI.APIKey == "" {
		return "OpenAI API key not configured. Please add OPENAI_API_KEY to your .env file.", nil
	}

	body := map[string]any{
		"model": s.cfg.OpenAI.TutorModel,
		"messages": []any{
			map[string]any{"role": "system", "content": "You are a helpful tutor explaining exam questions to students."},
			map[string]any{"role": "user", "content": fmt.Sprintf("Question: %s\n\nStudent asks: %s", questionContext, question)},
		},
		"max_tokens": 500,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequest(http.MethodPost, s.openAIEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.OpenAI.APIKey)

	resp, err := s.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to query OpenAI: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI tutor request failed with status %d: %s", resp.StatusCode, truncate(string(raw), 256))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(raw, &completion); err != nil || len(completion.Choices) == 0 {
		return "", fmt.Errorf("OpenAI tutor returned no completion")
	}
	return completion.Choices[0].Message.Content, nil
}

func (s *tutorService) explainWithGemini(question, questionContext string) (string, error) {
	if s.gemini == nil {
		return "Gemini API key not configured. Please add GEMINI_API_KEY to your .env file.", nil
	}

	var prompt strings.Builder
	prompt.WriteString("You are a helpful tutor. A student has this exam question:\n\n")
	prompt.WriteString(questionContext)
	prompt.WriteString("\n\nThe student asks: ")
	prompt.WriteString(question)
	prompt.WriteString("\n\nProvide a clear, helpful explanation.")

	resp, err := s.gemini.GenerateContent(context.Background(), genai.Text(prompt.String()))
	if err != nil {
		log.Error().Err(err).Msg("Gemini tutor request failed")
		return "", fmt.Errorf("failed to query Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	var answer strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			answer.WriteString(string(txt))
		}
	}
	if answer.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return answer.String(), nil
}
