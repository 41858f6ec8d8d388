package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultHubURL       = "https://huggingface.co"
	DefaultInferenceURL = "https://api-inference.huggingface.co"
)

var (
	ErrModelNotFound    = errors.New("model not found")
	ErrUnsupportedModel = errors.New("model is not a translation model")
)

// translationPipelines are the hub pipeline tags a seq2seq translation model
// may be published under.
var translationPipelines = map[string]bool{
	"translation":          true,
	"text2text-generation": true,
}

// HubLoader resolves model identifiers against a Hugging Face compatible hub
// and binds them to an inference endpoint.
type HubLoader struct {
	hubURL       string
	inferenceURL string
	token        string
	client       *http.Client
}

func NewHubLoader(cfg RuntimeConfig) *HubLoader {
	hubURL := cfg.HubURL
	if hubURL == "" {
		hubURL = DefaultHubURL
	}
	inferenceURL := cfg.InferenceURL
	if inferenceURL == "" {
		inferenceURL = DefaultInferenceURL
	}
	return &HubLoader{
		hubURL:       strings.TrimRight(hubURL, "/"),
		inferenceURL: strings.TrimRight(inferenceURL, "/"),
		token:        cfg.Token,
		client:       &http.Client{Timeout: cfg.Timeout},
	}
}

func (l *HubLoader) Load(ctx context.Context, modelID string) (Engine, error) {
	if modelID == "" {
		return nil, fmt.Errorf("empty model identifier")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api/models/%s", l.hubURL, modelID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	l.authorize(req)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusUnauthorized:
		// The hub answers 401 for repositories that do not exist when the
		// caller is anonymous.
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelID)
	default:
		return nil, fmt.Errorf("hub returned status %d", resp.StatusCode)
	}

	var info struct {
		ID          string `json:"id"`
		PipelineTag string `json:"pipeline_tag"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode model info: %w", err)
	}

	if info.PipelineTag != "" && !translationPipelines[info.PipelineTag] {
		return nil, fmt.Errorf("%w: %s has pipeline %q", ErrUnsupportedModel, modelID, info.PipelineTag)
	}

	return &HubEngine{
		modelID:  modelID,
		endpoint: fmt.Sprintf("%s/models/%s", l.inferenceURL, modelID),
		token:    l.token,
		client:   l.client,
	}, nil
}

func (l *HubLoader) authorize(req *http.Request) {
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}
}

// HubEngine runs a hub model through its inference endpoint.
type HubEngine struct {
	modelID  string
	endpoint string
	token    string
	client   *http.Client
}

func (e *HubEngine) ModelID() string {
	return e.modelID
}

func (e *HubEngine) Run(ctx context.Context, text string) ([]Output, error) {
	body := map[string]interface{}{
		"inputs": text,
		"options": map[string]interface{}{
			"wait_for_model": true,
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", e.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	// text2text-generation models answer with generated_text instead of
	// translation_text.
	var candidates []struct {
		TranslationText string `json:"translation_text"`
		GeneratedText   string `json:"generated_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("unexpected inference response: %w", err)
	}

	outputs := make([]Output, 0, len(candidates))
	for _, c := range candidates {
		text := c.TranslationText
		if text == "" {
			text = c.GeneratedText
		}
		outputs = append(outputs, Output{TranslationText: text})
	}
	return outputs, nil
}
