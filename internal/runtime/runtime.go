// Package runtime adapts the relay handler to HTTP and Lambda transports.
package runtime

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/murmur-app/murmur/internal/handler"
	"github.com/murmur-app/murmur/internal/helpers"
	"github.com/murmur-app/murmur/internal/metrics"
	"github.com/murmur-app/murmur/internal/models"
)

// Option is a functional option used to configure a Runtime instance.
type Option func(*Runtime)

// WithLogger sets the logger instance for the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// Runtime wraps the relay handler with transport-specific adapters.
type Runtime struct {
	*handler.Handler
	logger *slog.Logger
}

// NewRuntime creates a new runtime instance.
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// Lambda is the Lambda handler for the runtime.
func (r *Runtime) Lambda(req events.APIGatewayV2HTTPRequest) (response any, err error) {
	r.logger.Info("received API Gateway request")

	// The signature covers the body exactly as transmitted: undo the API
	// Gateway base64 wrapping before verification sees the bytes.
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		body, err = base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			r.logger.Warn("failed to decode base64 body", slog.Any("error", err))
			result := models.Response{Body: "malformed body encoding", StatusCode: http.StatusBadRequest}
			r.observe(result)
			return r.lambdaResponse(result)
		}
	}

	lch := make(map[string]string)
	for k, v := range req.Headers {
		lch[strings.ToLower(k)] = v
	}

	result, err := r.Handler.Process(body, lch)
	r.observe(result)
	if err != nil {
		// The status code carries the verdict. Returning the error would mark
		// the invocation failed and the gateway would mask the composed
		// response with a 502.
		r.logger.Warn("request not relayed", slog.Any("error", err))
	}
	return r.lambdaResponse(result)
}

func (r *Runtime) lambdaResponse(result models.Response) (any, error) {
	payloadType := r.Handler.GetLambdaPayloadType()
	switch payloadType {
	case "api-gateway-v1":
		return events.APIGatewayProxyResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	case "api-gateway-v2":
		return events.APIGatewayV2HTTPResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	case "lambda-url":
		return events.LambdaFunctionURLResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", payloadType)
	}
}

// ServeHTTP is the HTTP handler for the runtime.
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodPost:
		break
	default:
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "method not allowed", slog.Any("method", req.Method))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusMethodNotAllowed}, nil, resp)
		return
	}

	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("method", req.Method), slog.Any("path", req.URL.Path))
	// The raw body is read before any form parsing touches the request.
	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusInternalServerError}, err, resp)
		return
	}

	headers := make(map[string]string)
	for k, v := range req.Header {
		headers[strings.ToLower(k)] = v[0]
	}

	r.logger.Debug("processing request...")
	result, err := r.Handler.Process(body, headers)
	r.observe(result)
	helpers.RespondHTTP(result, err, resp)
}

// observe records the request outcome.
func (r *Runtime) observe(result models.Response) {
	switch {
	case result.StatusCode == http.StatusUnauthorized:
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
	case result.StatusCode >= http.StatusOK && result.StatusCode < http.StatusMultipleChoices:
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeRelayed).Inc()
	default:
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeError).Inc()
	}
}
