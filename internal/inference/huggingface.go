package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 1 << 20

// HuggingFaceConfig configures the text-generation client.
type HuggingFaceConfig struct {
	BaseURL   string
	Model     string
	Token     string
	Params    Params
	Timeout   time.Duration
	Transport http.RoundTripper
}

// HuggingFace calls the hosted text-generation task of a model.
type HuggingFace struct {
	endpoint string
	token    string
	params   Params
	client   *http.Client
}

var _ Generator = (*HuggingFace)(nil)

// NewHuggingFace creates a client for cfg.Model.
func NewHuggingFace(cfg HuggingFaceConfig) *HuggingFace {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &HuggingFace{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/" + cfg.Model,
		token:    cfg.Token,
		params:   cfg.Params,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// Generate returns the text the model produced for prompt.
func (h *HuggingFace) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens: h.params.MaxNewTokens,
			Temperature:  h.params.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("huggingface returned status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("huggingface returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return parseGeneration(data)
}

// parseGeneration accepts the list form, the single-object form, and the
// error object some deployments return with status 200.
func parseGeneration(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty response")
	}

	if trimmed[0] == '[' {
		var list []hfGeneration
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(list) == 0 {
			return "", fmt.Errorf("no generations returned")
		}
		return list[0].GeneratedText, nil
	}

	var obj struct {
		hfGeneration
		hfError
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if obj.Error != "" {
		return "", fmt.Errorf("huggingface error: %s", obj.Error)
	}
	return obj.GeneratedText, nil
}
