package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"
	maxLabels       = 20
)

// Client calls the Cloud Vision images:annotate REST endpoint.
type Client struct {
	APIKey   string
	Endpoint string
	HTTP     *http.Client
}

// NewClient creates a Vision client authenticated with an API key.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:   apiKey,
		Endpoint: defaultEndpoint,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent `json:"image"`
	Features []feature    `json:"features"`
}

type imageContent struct {
	Content string `json:"content"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type annotateResponse struct {
	Responses []imageResponse `json:"responses"`
}

type imageResponse struct {
	LabelAnnotations    []entityAnnotation `json:"labelAnnotations"`
	LandmarkAnnotations []entityAnnotation `json:"landmarkAnnotations"`
	FullTextAnnotation  *struct {
		Text string `json:"text"`
	} `json:"fullTextAnnotation"`
	SafeSearchAnnotation *struct {
		Adult    Likelihood `json:"adult"`
		Violence Likelihood `json:"violence"`
	} `json:"safeSearchAnnotation"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type entityAnnotation struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// Extract runs label, text, safe-search and landmark detection in a single
// request. Any failure is returned as *ExtractionError.
func (c *Client) Extract(ctx context.Context, image []byte) (*Features, error) {
	if len(image) == 0 {
		return nil, extractionErr("input", errors.New("empty image"))
	}
	if c.APIKey == "" {
		return nil, extractionErr("auth", errors.New("GOOGLE_VISION_API_KEY não definida"))
	}

	body, err := json.Marshal(annotateRequest{
		Requests: []imageRequest{{
			Image: imageContent{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []feature{
				{Type: "LABEL_DETECTION", MaxResults: maxLabels},
				{Type: "TEXT_DETECTION"},
				{Type: "SAFE_SEARCH_DETECTION"},
				{Type: "LANDMARK_DETECTION"},
			},
		}},
	})
	if err != nil {
		return nil, extractionErr("encode", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, extractionErr("request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, extractionErr("transport", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, extractionErr("status", fmt.Errorf("vision API status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var out annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, extractionErr("decode", err)
	}
	if len(out.Responses) == 0 {
		return nil, extractionErr("decode", errors.New("empty response from vision API"))
	}

	r := out.Responses[0]
	if r.Error != nil && r.Error.Message != "" {
		return nil, extractionErr("annotate", fmt.Errorf("code %d: %s", r.Error.Code, r.Error.Message))
	}

	return toFeatures(r), nil
}

func toFeatures(r imageResponse) *Features {
	f := &Features{
		Labels:    make([]string, 0, len(r.LabelAnnotations)),
		Landmarks: make([]string, 0, len(r.LandmarkAnnotations)),
	}
	for _, l := range r.LabelAnnotations {
		f.Labels = append(f.Labels, strings.ToLower(l.Description))
	}
	for _, l := range r.LandmarkAnnotations {
		f.Landmarks = append(f.Landmarks, strings.ToLower(l.Description))
	}
	if r.FullTextAnnotation != nil {
		f.Text = r.FullTextAnnotation.Text
	}
	if r.SafeSearchAnnotation != nil {
		f.SafeSearch = SafeSearch{
			Adult:    r.SafeSearchAnnotation.Adult,
			Violence: r.SafeSearchAnnotation.Violence,
		}
	}
	return f
}
