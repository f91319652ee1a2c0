package runtime_test

import (
	"bytes"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	json "github.com/goccy/go-json"
	"github.com/murmur-app/murmur/internal/handler"
	"github.com/murmur-app/murmur/internal/metrics"
	"github.com/murmur-app/murmur/internal/runtime"
	"github.com/murmur-app/murmur/internal/validation"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningSecret = "test-signing-secret"

func newSlackStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRuntime(t *testing.T, payloadType string) *runtime.Runtime {
	t.Helper()
	hdl, err := handler.NewRelayHandler(
		handler.WithAuthMode("env"),
		handler.WithSigningSecret(testSigningSecret),
		handler.WithBotToken("xoxb-test"),
		handler.WithRelayChannel("C0RELAY"),
		handler.WithSlackAPIBaseURL(newSlackStub(t).URL),
		handler.WithLambdaPayloadType(payloadType))
	require.NoError(t, err)
	return runtime.NewRuntime(hdl)
}

func signedRequest(body []byte) (string, string) {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	secret := validation.NewSigningSecret(testSigningSecret)
	return ts, secret.ExpectedSignature(ts, body)
}

func commandBody() []byte {
	form := url.Values{}
	form.Set("command", "/murmur")
	form.Set("text", "hello world")
	return []byte(form.Encode())
}

func TestRuntime_ServeHTTP(t *testing.T) {
	rt := newTestRuntime(t, "api-gateway-v2")
	body := commandBody()
	ts, sig := signedRequest(body)

	req := httptest.NewRequest(http.MethodPost, "/slack/command", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(validation.TimestampHeader, ts)
	req.Header.Set(validation.SignatureHeader, sig)

	rw := httptest.NewRecorder()
	rt.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "application/json", rw.Header().Get("Content-Type"))

	var reply struct {
		ResponseType string `json:"response_type"`
		Text         string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &reply))
	assert.Equal(t, "ephemeral", reply.ResponseType)
	assert.NotEmpty(t, reply.Text)
}

func TestRuntime_ServeHTTP_MethodNotAllowed(t *testing.T) {
	rt := newTestRuntime(t, "api-gateway-v2")

	req := httptest.NewRequest(http.MethodGet, "/slack/command", nil)
	rw := httptest.NewRecorder()
	rt.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rw.Code)
}

func TestRuntime_ServeHTTP_UnsignedRequest(t *testing.T) {
	rt := newTestRuntime(t, "api-gateway-v2")

	req := httptest.NewRequest(http.MethodPost, "/slack/command", bytes.NewReader(commandBody()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rw := httptest.NewRecorder()
	rt.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestRuntime_Lambda(t *testing.T) {
	body := commandBody()
	ts, sig := signedRequest(body)

	baseHeaders := func() map[string]string {
		return map[string]string{
			// Mixed-case headers: the runtime normalizes before processing.
			"Content-Type":             "application/x-www-form-urlencoded",
			validation.TimestampHeader: ts,
			validation.SignatureHeader: sig,
		}
	}

	t.Run("api_gateway_v2", func(t *testing.T) {
		rt := newTestRuntime(t, "api-gateway-v2")
		resp, err := rt.Lambda(events.APIGatewayV2HTTPRequest{
			Body:    string(body),
			Headers: baseHeaders(),
		})
		require.NoError(t, err)
		v2, ok := resp.(events.APIGatewayV2HTTPResponse)
		require.True(t, ok)
		assert.Equal(t, http.StatusOK, v2.StatusCode)
		assert.Contains(t, v2.Body, "ephemeral")
	})

	t.Run("api_gateway_v1", func(t *testing.T) {
		rt := newTestRuntime(t, "api-gateway-v1")
		resp, err := rt.Lambda(events.APIGatewayV2HTTPRequest{
			Body:    string(body),
			Headers: baseHeaders(),
		})
		require.NoError(t, err)
		v1, ok := resp.(events.APIGatewayProxyResponse)
		require.True(t, ok)
		assert.Equal(t, http.StatusOK, v1.StatusCode)
	})

	t.Run("lambda_url", func(t *testing.T) {
		rt := newTestRuntime(t, "lambda-url")
		resp, err := rt.Lambda(events.APIGatewayV2HTTPRequest{
			Body:    string(body),
			Headers: baseHeaders(),
		})
		require.NoError(t, err)
		u, ok := resp.(events.LambdaFunctionURLResponse)
		require.True(t, ok)
		assert.Equal(t, http.StatusOK, u.StatusCode)
	})

	t.Run("base64_encoded_body", func(t *testing.T) {
		rt := newTestRuntime(t, "api-gateway-v2")
		resp, err := rt.Lambda(events.APIGatewayV2HTTPRequest{
			Body:            base64.StdEncoding.EncodeToString(body),
			IsBase64Encoded: true,
			Headers:         baseHeaders(),
		})
		require.NoError(t, err)
		v2, ok := resp.(events.APIGatewayV2HTTPResponse)
		require.True(t, ok)
		// The signature was computed over the decoded bytes and still verifies.
		assert.Equal(t, http.StatusOK, v2.StatusCode)
	})

	t.Run("invalid_base64_body", func(t *testing.T) {
		rt := newTestRuntime(t, "api-gateway-v2")
		errored := metrics.RequestsTotal.WithLabelValues(metrics.OutcomeError)
		before := testutil.ToFloat64(errored)
		resp, err := rt.Lambda(events.APIGatewayV2HTTPRequest{
			Body:            "%%% not base64 %%%",
			IsBase64Encoded: true,
			Headers:         baseHeaders(),
		})
		require.NoError(t, err)
		v2, ok := resp.(events.APIGatewayV2HTTPResponse)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, v2.StatusCode)
		// Undecodable requests still count against the outcome counter.
		assert.Equal(t, before+1, testutil.ToFloat64(errored))
	})

	t.Run("unsigned_request", func(t *testing.T) {
		rt := newTestRuntime(t, "api-gateway-v2")
		resp, err := rt.Lambda(events.APIGatewayV2HTTPRequest{
			Body:    string(body),
			Headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		})
		// The verdict rides the status code, not an invocation error: the
		// gateway would otherwise turn the composed 401 into a 502.
		require.NoError(t, err)
		v2, ok := resp.(events.APIGatewayV2HTTPResponse)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, v2.StatusCode)
	})

	t.Run("unsupported_payload_type", func(t *testing.T) {
		rt := newTestRuntime(t, "bogus")
		_, err := rt.Lambda(events.APIGatewayV2HTTPRequest{
			Body:    string(body),
			Headers: baseHeaders(),
		})
		assert.Error(t, err)
	})
}
