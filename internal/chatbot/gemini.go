package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"guardaazul/backend/internal/config"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/"

// Reply is one generated answer.
type Reply struct {
	Text string
	// TotalTokens is nil when the API did not report usage.
	TotalTokens *int
}

// Gemini calls the generateContent REST endpoint.
type Gemini struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	HTTP        *http.Client

	limiter *rate.Limiter
}

// NewGemini creates a client throttled to the configured request rate.
func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		APIKey:      apiKey,
		Model:       model,
		BaseURL:     defaultBaseURL,
		Temperature: config.ChatTemperature,
		MaxTokens:   config.ChatMaxOutputTokens,
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(config.ChatRequestsPerSec), config.ChatRequestBurst),
	}
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

// inlineData carries raw bytes; encoding/json sends them base64 encoded.
type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// DefaultDescribePrompt asks for a plain description of a photo.
const DefaultDescribePrompt = "Descreva o que está nesta imagem de forma objetiva e clara."

// Generate sends prompt as a single user turn and returns the first candidate.
func (g *Gemini) Generate(ctx context.Context, prompt string) (*Reply, error) {
	return g.generate(ctx, []geminiPart{{Text: prompt}}, generationConfig{
		Temperature:     g.Temperature,
		MaxOutputTokens: g.MaxTokens,
	})
}

// Describe asks the model for a short description of image. An empty prompt
// uses DefaultDescribePrompt.
func (g *Gemini) Describe(ctx context.Context, image []byte, prompt string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("empty image")
	}
	if prompt == "" {
		prompt = DefaultDescribePrompt
	}
	parts := []geminiPart{
		{Text: prompt},
		{InlineData: &inlineData{MimeType: http.DetectContentType(image), Data: image}},
	}
	reply, err := g.generate(ctx, parts, generationConfig{
		Temperature:     config.DescribeTemperature,
		MaxOutputTokens: config.DescribeMaxOutputTokens,
	})
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (g *Gemini) generate(ctx context.Context, parts []geminiPart, genCfg generationConfig) (*Reply, error) {
	if g.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	reqBody := geminiRequest{
		Contents:         []geminiContent{{Parts: parts}},
		GenerationConfig: genCfg,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := g.BaseURL + url.PathEscape(g.Model) + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("empty response from gemini")
	}

	var text strings.Builder
	for _, p := range geminiResp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	reply := &Reply{Text: strings.TrimSpace(text.String())}
	if geminiResp.UsageMetadata != nil {
		n := geminiResp.UsageMetadata.TotalTokenCount
		reply.TotalTokens = &n
	}
	return reply, nil
}
