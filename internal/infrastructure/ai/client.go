package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/rakuda/backend/internal/domain/enrichment"
	"github.com/rakuda/backend/internal/infrastructure/config"
)

// Client talks to an OpenAI-compatible chat-completions endpoint and
// implements enrichment.Classifier. All calls run through a circuit
// breaker so a struggling upstream degrades to rule-only enrichment
// instead of stalling every request.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker[[]byte]
	logger      *zap.Logger
}

// NewClient creates a classifier client from configuration.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "ai-classifier",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("AI circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		breaker:     breaker,
		logger:      logger.Named("ai"),
	}
}

// InferCategory implements enrichment.Classifier.
func (c *Client) InferCategory(ctx context.Context, title, description string) (enrichment.CategoryInference, error) {
	raw, err := c.complete(ctx, buildCategoryPrompt(title, description), 300)
	if err != nil {
		return enrichment.CategoryInference{}, err
	}

	var payload struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return enrichment.CategoryInference{}, fmt.Errorf("decode category inference: %w", err)
	}

	return enrichment.CategoryInference{
		Category:   payload.Category,
		Confidence: clamp01(payload.Confidence),
		Reasoning:  payload.Reasoning,
	}, nil
}

// EnrichListing implements enrichment.Classifier. One call returns
// translations, attributes and a compliance judgement.
func (c *Client) EnrichListing(ctx context.Context, title, description, category string) (*enrichment.ListingEnrichment, error) {
	raw, err := c.completeWithUsage(ctx, buildEnrichmentPrompt(title, description, category), c.maxTokens)
	if err != nil {
		return nil, err
	}

	var payload enrichmentPayload
	if err := json.Unmarshal(raw.content, &payload); err != nil {
		return nil, fmt.Errorf("decode enrichment response: %w", err)
	}

	result := &enrichment.ListingEnrichment{
		Translations: enrichment.Translations{
			EN: enrichment.TranslatedText{Title: payload.Translations.EN.Title, Description: payload.Translations.EN.Description},
			RU: enrichment.TranslatedText{Title: payload.Translations.RU.Title, Description: payload.Translations.RU.Description},
		},
		TokensUsed: raw.totalTokens,
	}

	if a := payload.Attributes; a != nil {
		result.Attributes = &enrichment.ExtractedAttributes{
			Brand:         a.Brand,
			Model:         a.Model,
			Color:         a.Color,
			Size:          a.Size,
			Material:      a.Material,
			Condition:     enrichment.Condition(a.Condition),
			Category:      a.Category,
			Weight:        a.Weight,
			Year:          a.Year,
			Gender:        a.Gender,
			ItemSpecifics: a.ItemSpecifics,
			Confidence:    clamp01(a.Confidence),
		}
	}

	if v := payload.Validation; v != nil {
		status, err := enrichment.ParseValidationStatus(v.Status)
		if err != nil {
			// Unknown verdicts park the listing for a human instead of
			// trusting the model.
			status = enrichment.StatusReviewRequired
		}
		result.Validation = &enrichment.ListingValidation{
			Status:      status,
			Flags:       v.Flags,
			ReviewNotes: v.ReviewNotes,
			RiskScore:   clampRisk(v.RiskScore),
		}
	}

	return result, nil
}

type enrichmentPayload struct {
	Translations struct {
		EN translatedTextPayload `json:"en"`
		RU translatedTextPayload `json:"ru"`
	} `json:"translations"`
	Attributes *struct {
		Brand         string            `json:"brand"`
		Model         string            `json:"model"`
		Color         string            `json:"color"`
		Size          string            `json:"size"`
		Material      string            `json:"material"`
		Condition     string            `json:"condition"`
		Category      string            `json:"category"`
		Weight        string            `json:"weight"`
		Year          string            `json:"year"`
		Gender        string            `json:"gender"`
		ItemSpecifics map[string]string `json:"itemSpecifics"`
		Confidence    float64           `json:"confidence"`
	} `json:"attributes"`
	Validation *struct {
		Status      string   `json:"status"`
		Flags       []string `json:"flags"`
		ReviewNotes string   `json:"reviewNotes"`
		RiskScore   int      `json:"riskScore"`
	} `json:"validation"`
}

type translatedTextPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type completion struct {
	content     []byte
	totalTokens int
}

// complete runs a prompt and returns the JSON object from the reply.
func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) ([]byte, error) {
	result, err := c.completeWithUsage(ctx, prompt, maxTokens)
	if err != nil {
		return nil, err
	}
	return result.content, nil
}

func (c *Client) completeWithUsage(ctx context.Context, prompt string, maxTokens int) (*completion, error) {
	payload, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    c.temperature,
		MaxTokens:      maxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.postJSON(ctx, c.baseURL+"/chat/completions", payload)
	})
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("chat response contained no content")
	}

	content, err := extractJSONObject(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return &completion{content: content, totalTokens: resp.Usage.TotalTokens}, nil
}

func (c *Client) postJSON(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat completions returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// extractJSONObject pulls the first top-level JSON object out of a model
// reply, tolerating prose or code fences around it.
func extractJSONObject(raw string) ([]byte, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model reply")
	}
	return []byte(raw[start : end+1]), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampRisk(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
