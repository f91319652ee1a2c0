// Package rewrite provides the Controller that augments anonymous submissions
// with AI-rewritten text and commentary via an OpenAI-compatible API.
package rewrite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/murmur-app/murmur/internal/helpers"
	"github.com/murmur-app/murmur/internal/relay"
	"github.com/pkg/errors"
)

const defaultBaseURL = "https://api.openai.com/v1"

const defaultModel = "gpt-4o-mini"

const defaultTimeout = 20 * time.Second

// commentaryMarker separates the rewritten text from the commentary in the
// model output. The prompts instruct the model to emit it on its own line.
const commentaryMarker = "---"

const promptEnglish = "Rewrite the following anonymous message so it reads naturally while preserving its meaning and tone. " +
	"Then, after a line containing only \"---\", add one short, playful comment about the message. Reply in English."

const promptKorean = "다음 익명 메시지를 의미와 어조를 유지하면서 자연스럽게 다듬어 주세요. " +
	"그 다음 \"---\"만 있는 줄 뒤에 메시지에 대한 짧고 가벼운 한마디를 덧붙여 주세요. 한국어로 답해 주세요."

// Controller encapsulates calls against an OpenAI-compatible chat completions API.
type Controller struct {
	logger *slog.Logger

	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// Option is a functional option used to configure or modify the properties of a Controller instance.
type Option func(*Controller)

// NewController initializes a new Controller with the provided options, setting defaults where necessary.
func NewController(opts ...Option) (*Controller, error) {
	_inst := new(Controller)
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.client == nil {
		_inst.client = &http.Client{Timeout: defaultTimeout}
	}
	if _inst.baseURL == "" {
		_inst.baseURL = defaultBaseURL
	}
	_inst.baseURL = strings.TrimRight(_inst.baseURL, "/")
	if _inst.model == "" {
		_inst.model = defaultModel
	}
	if _inst.apiKey == "" {
		return nil, errors.New("missing API key")
	}
	return _inst, nil
}

// Result holds the augmented form of one submission.
type Result struct {
	// Text is the rewritten message.
	Text string
	// Commentary is the model's short side note, possibly empty.
	Commentary string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Rewrite asks the model to rewrite text and produce a short commentary,
// prompting in the guessed language of the submission.
func (c *Controller) Rewrite(ctx context.Context, text string, lang relay.Language) (*Result, error) {
	prompt := promptEnglish
	if lang == relay.LanguageKorean {
		prompt = promptKorean
	}

	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal completion request")
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("requesting rewrite...", slog.String("model", c.model), slog.String("language", string(lang)))
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to call chat completions")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var envelope completionResponse
	if err = json.Unmarshal(respBody, &envelope); err != nil {
		return nil, errors.Wrapf(err, "failed to decode chat completions response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := "unknown error"
		if envelope.Error != nil {
			apiErr = envelope.Error.Message
		}
		return nil, errors.Errorf("chat completions returned status %d: %s", resp.StatusCode, apiErr)
	}
	if len(envelope.Choices) == 0 {
		return nil, errors.New("chat completions returned no choices")
	}

	return parseCompletion(envelope.Choices[0].Message.Content), nil
}

func parseCompletion(content string) *Result {
	rewritten, commentary, found := strings.Cut(content, "\n"+commentaryMarker+"\n")
	if !found {
		rewritten = strings.TrimSuffix(content, "\n"+commentaryMarker)
		commentary = ""
	}
	return &Result{
		Text:       strings.TrimSpace(rewritten),
		Commentary: strings.TrimSpace(commentary),
	}
}
