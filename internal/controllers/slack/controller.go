// Package slack provides the Controller for outbound Slack Web API calls.
package slack

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
	"github.com/pkg/errors"
)

const defaultAPIBaseURL = "https://slack.com"

const defaultTimeout = 10 * time.Second

// Controller encapsulates outbound calls against the Slack Web API.
type Controller struct {
	logger *slog.Logger

	client   *http.Client
	baseURL  string
	botToken string
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
		_inst.baseURL = defaultAPIBaseURL
	}
	_inst.baseURL = strings.TrimRight(_inst.baseURL, "/")
	if _inst.botToken == "" {
		return nil, errors.New("missing bot token")
	}
	return _inst, nil
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessage posts text to the given channel via chat.postMessage.
func (c *Controller) PostMessage(ctx context.Context, channel, text string) error {
	if channel == "" {
		return errors.New("missing channel")
	}

	body, err := json.Marshal(postMessageRequest{
		Channel: channel,
		Text:    text,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal message body")
	}

	endpoint := fmt.Sprintf("%s/api/chat.postMessage", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	c.logger.Debug("posting message...", slog.String("channel", channel))
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to call chat.postMessage")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("chat.postMessage returned status %d: %s", resp.StatusCode, helpers.Truncate(strings.TrimSpace(string(respBody)), 256))
	}

	var envelope apiResponse
	if err = json.Unmarshal(respBody, &envelope); err != nil {
		return errors.Wrap(err, "failed to decode chat.postMessage response")
	}
	if !envelope.OK {
		apiErr := envelope.Error
		if apiErr == "" {
			apiErr = "unknown error"
		}
		return errors.Errorf("chat.postMessage failed: %s", apiErr)
	}
	return nil
}

type ephemeralResponse struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

// RespondEphemeral posts an ephemeral reply to a slash-command response_url.
// Used when the confirmation cannot ride on the command's own HTTP response.
func (c *Controller) RespondEphemeral(ctx context.Context, responseURL, text string) error {
	if responseURL == "" {
		return errors.New("missing response URL")
	}

	body, err := json.Marshal(ephemeralResponse{
		ResponseType: "ephemeral",
		Text:         text,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal ephemeral response")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to call response URL")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("response URL returned status %d", resp.StatusCode)
	}
	return nil
}
