package slack

import (
	"log/slog"
	"net/http"
)

// WithLogger sets the logger instance for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client, primarily for testing.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.client = client
	}
}

// WithAPIBaseURL overrides the Slack Web API base URL.
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Controller) {
		c.baseURL = baseURL
	}
}

// WithBotToken sets the bot user OAuth token used for outbound calls.
func WithBotToken(token string) Option {
	return func(c *Controller) {
		c.botToken = token
	}
}
