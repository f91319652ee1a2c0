package handler

import (
	"context"
	"log/slog"
	"time"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithContext sets the context for the handler.
func WithContext(ctx context.Context) Option {
	return func(h *Handler) {
		h.ctx = ctx
	}
}

// WithAuthMode sets the credentials provider for the handler. Supported values are 'env' and 'ssm'.
func WithAuthMode(authMode string) Option {
	return func(h *Handler) {
		h.authMode = authMode
	}
}

// WithSSMKey sets the SSM parameter holding the relay credentials.
func WithSSMKey(key string) Option {
	return func(h *Handler) {
		h.ssmKey = key
	}
}

// WithSigningSecret configures the handler with the secret used to validate incoming requests.
func WithSigningSecret(secret string) Option {
	return func(h *Handler) {
		h.signingSecret = secret
	}
}

// WithBotToken sets the bot token used for outbound platform calls.
func WithBotToken(token string) Option {
	return func(h *Handler) {
		h.botToken = token
	}
}

// WithRelayChannel sets the channel anonymous messages are relayed to.
func WithRelayChannel(channel string) Option {
	return func(h *Handler) {
		h.relayChannel = channel
	}
}

// WithSlackAPIBaseURL overrides the Slack Web API base URL.
func WithSlackAPIBaseURL(baseURL string) Option {
	return func(h *Handler) {
		h.slackAPIBaseURL = baseURL
	}
}

// WithRewriteEnabled toggles the AI rewrite and commentary step.
func WithRewriteEnabled(enabled bool) Option {
	return func(h *Handler) {
		h.rewriteEnabled = enabled
	}
}

// WithRewriteAPIKey sets the API key for the rewrite backend.
func WithRewriteAPIKey(apiKey string) Option {
	return func(h *Handler) {
		h.rewriteAPIKey = apiKey
	}
}

// WithRewriteBaseURL overrides the rewrite backend base URL.
func WithRewriteBaseURL(baseURL string) Option {
	return func(h *Handler) {
		h.rewriteBaseURL = baseURL
	}
}

// WithRewriteModel sets the model used for rewriting.
func WithRewriteModel(model string) Option {
	return func(h *Handler) {
		h.rewriteModel = model
	}
}

// WithRewriteTimeout bounds a single rewrite call.
func WithRewriteTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		h.rewriteTimeout = timeout
	}
}

// WithLambdaPayloadType sets the lambda payload type for a Handler instance.
func WithLambdaPayloadType(payloadType string) Option {
	return func(h *Handler) {
		h.lambdaPayloadType = payloadType
	}
}
