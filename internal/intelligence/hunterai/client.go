package hunterai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/pkg/errors"
)

// TextGenerator produces free-form text for a prompt.  Both the verification
// orchestrator and the analysis service depend on this interface rather than
// the concrete Gemini client so tests can substitute canned generators.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const (
	defaultBaseURL   = "https://generativelanguage.googleapis.com"
	defaultModel     = "gemini-2.0-flash"
	defaultAITimeout = 30 * time.Second
)

// ClientConfig carries the generative-language endpoint settings.
type ClientConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Configured reports whether an API key is present.  Callers treat a missing
// key as "collaborator absent", not as an error.
func (c ClientConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// GeminiClient calls the generateContent REST endpoint of the Google
// generative-language API.
type GeminiClient struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     logging.Logger
}

// NewGeminiClient builds a client, filling endpoint defaults.  Returns an
// error when no API key is configured; callers that want optional AI should
// check ClientConfig.Configured first.
func NewGeminiClient(cfg ClientConfig, logger logging.Logger) (*GeminiClient, error) {
	if !cfg.Configured() {
		return nil, errors.New(errors.ErrCodeAINotConfigured, "generative API key is not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultAITimeout
	}
	return &GeminiClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("gemini"),
	}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText sends the prompt to the generateContent endpoint and returns
// the concatenated text of the first candidate.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "marshal generate request")
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeAICallFailed, "build generate request")
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeAICallFailed, "call generative endpoint")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeAICallFailed, "read generate response")
	}

	c.logger.Debug("generate call completed",
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf(errors.ErrCodeAICallFailed,
			"generative endpoint returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeAIMalformedPayload, "decode generate response")
	}
	if parsed.Error != nil {
		return "", errors.Newf(errors.ErrCodeAICallFailed,
			"generative endpoint error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 {
		return "", errors.New(errors.ErrCodeAIMalformedPayload, "generate response has no candidates")
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New(errors.ErrCodeAIMalformedPayload, "generate response candidate is empty")
	}
	return text, nil
}
