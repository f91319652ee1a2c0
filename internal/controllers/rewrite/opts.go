package rewrite

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

// WithHTTPClient sets a custom HTTP client, primarily for testing and timeouts.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.client = client
	}
}

// WithBaseURL overrides the chat completions API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Controller) {
		c.baseURL = baseURL
	}
}

// WithAPIKey sets the API key used for outbound calls.
func WithAPIKey(apiKey string) Option {
	return func(c *Controller) {
		c.apiKey = apiKey
	}
}

// WithModel sets the model used for rewriting.
func WithModel(model string) Option {
	return func(c *Controller) {
		c.model = model
	}
}
