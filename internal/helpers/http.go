package helpers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/murmur-app/murmur/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

// RespondHTTP writes a models.Response to the wire. The body is written
// verbatim: callers own the encoding (slash-command replies are JSON the
// platform parses as-is). An error with no body becomes a JSON error envelope.
func RespondHTTP(response models.Response, err error, rw http.ResponseWriter) {
	body := []byte(response.Body)
	if len(body) == 0 && err != nil {
		body, _ = json.Marshal(errorResponse{Error: err.Error()})
	}

	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write(body)
}
