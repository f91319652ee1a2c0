// Package handler processes slash-command submissions into anonymous channel posts.
package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/murmur-app/murmur/internal/controllers/aws"
	"github.com/murmur-app/murmur/internal/controllers/rewrite"
	"github.com/murmur-app/murmur/internal/controllers/slack"
	"github.com/murmur-app/murmur/internal/helpers"
	"github.com/murmur-app/murmur/internal/metrics"
	"github.com/murmur-app/murmur/internal/models"
	"github.com/murmur-app/murmur/internal/relay"
	"github.com/murmur-app/murmur/internal/validation"
	"github.com/pkg/errors"
)

// Option is a functional option used to configure a Handler instance.
type Option func(*Handler)

// Handler relays anonymous slash-command submissions to the configured channel.
type Handler struct {
	ctx    context.Context
	logger *slog.Logger

	awsController     *aws.Controller
	slackController   *slack.Controller
	rewriteController *rewrite.Controller

	authMode          string
	ssmKey            string
	signingSecret     string
	botToken          string
	relayChannel      string
	slackAPIBaseURL   string
	rewriteEnabled    bool
	rewriteAPIKey     string
	rewriteBaseURL    string
	rewriteModel      string
	rewriteTimeout    time.Duration
	lambdaPayloadType string

	mu    sync.Mutex
	creds *Credentials
}

// Credentials is a helper struct to hold the relay credentials.
type Credentials struct {
	SigningSecret *validation.SigningSecret `json:"signing_secret"`
	BotToken      string                    `json:"bot_token,omitempty"`
	RewriteAPIKey string                    `json:"rewrite_api_key,omitempty"`
}

// NewRelayHandler creates a Handler from the given options.
func NewRelayHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		opt(_inst)
	}

	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}

	if strings.EqualFold(strings.TrimSpace(_inst.authMode), "ssm") {
		awsCtl, err := aws.NewController(
			aws.WithLogger(_inst.logger.With("component", "aws-controller")),
			aws.WithContext(_inst.ctx))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS controller")
		}
		_inst.awsController = awsCtl
	}

	return _inst, nil
}

// RetrieveCredentials fetches the relay credentials from the environment or SSM.
func (h *Handler) RetrieveCredentials() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.creds != nil {
		return nil
	}

	switch strings.TrimSpace(strings.ToLower(h.authMode)) {
	case "", "env":
		h.creds = &Credentials{
			SigningSecret: validation.NewSigningSecret(h.signingSecret),
			BotToken:      h.botToken,
			RewriteAPIKey: h.rewriteAPIKey,
		}
	case "ssm":
		h.logger.Debug("retrieving credentials from SSM...")
		secret, err := h.awsController.GetSecret(h.ssmKey, true)
		if err != nil {
			return errors.Wrap(err, "failed to fetch credentials from SSM")
		}
		var creds Credentials
		if err = json.Unmarshal([]byte(helpers.String(secret)), &creds); err != nil {
			return errors.Wrap(err, "failed to unmarshal credentials")
		}
		h.creds = &creds
	default:
		return fmt.Errorf("unsupported auth mode: %s", h.authMode)
	}
	return nil
}

// ensureControllers lazily creates the outbound controllers once credentials are known.
func (h *Handler) ensureControllers() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.slackController == nil {
		ctl, err := slack.NewController(
			slack.WithLogger(h.logger.With("component", "slack-controller")),
			slack.WithAPIBaseURL(h.slackAPIBaseURL),
			slack.WithBotToken(h.creds.BotToken))
		if err != nil {
			return errors.Wrap(err, "failed to create the slack controller")
		}
		h.slackController = ctl
	}

	if h.rewriteEnabled && h.rewriteController == nil && h.creds.RewriteAPIKey != "" {
		opts := []rewrite.Option{
			rewrite.WithLogger(h.logger.With("component", "rewrite-controller")),
			rewrite.WithBaseURL(h.rewriteBaseURL),
			rewrite.WithAPIKey(h.creds.RewriteAPIKey),
			rewrite.WithModel(h.rewriteModel),
		}
		if h.rewriteTimeout > 0 {
			opts = append(opts, rewrite.WithHTTPClient(&http.Client{Timeout: h.rewriteTimeout}))
		}
		ctl, err := rewrite.NewController(opts...)
		if err != nil {
			return errors.Wrap(err, "failed to create the rewrite controller")
		}
		h.rewriteController = ctl
	}
	return nil
}

// Process handles one slash-command request: it verifies the signature over
// the raw body exactly as received, then relays the submitted text. Identity
// fields of the submission are never logged or forwarded.
func (h *Handler) Process(body []byte, headers map[string]string) (models.Response, error) {
	logger := h.logger
	logger.Info("processing request...")

	if ct := headers["content-type"]; !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		logger.Warn("unsupported content type", slog.String("contentType", ct))
		return models.Response{Body: "unsupported content type", StatusCode: http.StatusUnsupportedMediaType}, fmt.Errorf("unsupported content type: %s", ct)
	}

	if err := h.RetrieveCredentials(); err != nil {
		logger.Warn("failed to retrieve credentials", slog.Any("error", err))
		return models.Response{Body: err.Error(), StatusCode: http.StatusInternalServerError}, err
	}

	if err := h.creds.SigningSecret.ValidateSignature(body, headers, time.Now()); err != nil {
		metrics.SignatureFailuresTotal.WithLabelValues(validation.FailureReason(err)).Inc()
		logger.Warn("validating signature", slog.Any("error", err))
		return models.Response{Body: "invalid request signature", StatusCode: http.StatusUnauthorized}, errors.Wrap(err, "signature verification failed")
	}
	logger.Debug("request signature is valid")

	relayID := uuid.NewString()
	logger = logger.With(slog.String("relayId", relayID))

	form, err := url.ParseQuery(string(body))
	if err != nil {
		logger.Warn("parsing command payload", slog.Any("error", err))
		return models.Response{Body: "malformed command payload", StatusCode: http.StatusUnprocessableEntity}, err
	}

	text := strings.TrimSpace(form.Get("text"))
	lang := relay.GuessLanguage(text)
	logger = logger.With(slog.String("command", form.Get("command")), slog.String("language", string(lang)))

	if text == "" {
		logger.Info("empty submission, replying with usage hint")
		return ephemeral(relay.UsageHint(lang))
	}

	if h.relayChannel == "" {
		err = &NoRelayChannelError{}
		logger.Error("cannot relay", slog.Any("error", err))
		return models.Response{Body: err.Error(), StatusCode: http.StatusInternalServerError}, err
	}

	if err = h.ensureControllers(); err != nil {
		logger.Warn("failed to initialise controllers", slog.Any("error", err))
		return models.Response{Body: err.Error(), StatusCode: http.StatusInternalServerError}, err
	}

	msg := relay.Message{Text: text, Language: lang}
	if h.rewriteController != nil {
		result, rwErr := h.rewriteController.Rewrite(h.ctx, text, lang)
		switch {
		case rwErr != nil:
			metrics.RewriteFailuresTotal.Inc()
			logger.Warn("rewrite failed, relaying original text", slog.Any("error", rwErr))
		case result.Text == "":
			logger.Warn("rewrite returned empty text, relaying original text")
		default:
			msg.Text = result.Text
			msg.Commentary = result.Commentary
		}
	}

	if err = h.slackController.PostMessage(h.ctx, h.relayChannel, msg.Compose()); err != nil {
		logger.Error("failed to relay message", slog.Any("error", err))
		return models.Response{Body: "failed to relay message", StatusCode: http.StatusInternalServerError}, err
	}

	logger.Info("relayed anonymous message", slog.String("channel", h.relayChannel))

	// A post-rewrite confirmation can land after the slash-command response
	// deadline; the response_url accepts it for much longer.
	if responseURL := form.Get("response_url"); responseURL != "" {
		if respErr := h.slackController.RespondEphemeral(h.ctx, responseURL, relay.Confirmation(lang)); respErr != nil {
			logger.Warn("response_url delivery failed, confirming inline", slog.Any("error", respErr))
		} else {
			return models.Response{StatusCode: http.StatusOK}, nil
		}
	}
	return ephemeral(relay.Confirmation(lang))
}

// GetLambdaPayloadType returns the configured lambda payload type.
func (h *Handler) GetLambdaPayloadType() string {
	return h.lambdaPayloadType
}

type slashResponse struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

// ephemeral renders an ephemeral slash-command reply the platform shows only to the submitter.
func ephemeral(text string) (models.Response, error) {
	body, err := json.Marshal(slashResponse{ResponseType: "ephemeral", Text: text})
	if err != nil {
		return models.Response{StatusCode: http.StatusInternalServerError}, err
	}
	return models.Response{
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
		StatusCode: http.StatusOK,
	}, nil
}
