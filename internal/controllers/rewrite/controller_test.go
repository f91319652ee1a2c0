package rewrite_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/murmur-app/murmur/internal/controllers/rewrite"
	"github.com/murmur-app/murmur/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, status int, content string, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		require.Len(t, req.Messages, 2)
		if capture != nil {
			*capture = req.Messages[0].Content
		}

		w.WriteHeader(status)
		reply := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		if status != http.StatusOK {
			reply = map[string]any{"error": map[string]any{"message": content}}
		}
		_ = json.NewEncoder(w).Encode(reply)
	}))
}

func TestController_Rewrite(t *testing.T) {
	testCases := []struct {
		Name               string
		Content            string
		ExpectedText       string
		ExpectedCommentary string
	}{
		{
			Name:               "text_and_commentary",
			Content:            "Someone broke the coffee machine again.\n---\nBrave of them to confess.",
			ExpectedText:       "Someone broke the coffee machine again.",
			ExpectedCommentary: "Brave of them to confess.",
		},
		{
			Name:         "no_marker",
			Content:      "Someone broke the coffee machine again.",
			ExpectedText: "Someone broke the coffee machine again.",
		},
		{
			Name:         "trailing_marker_without_commentary",
			Content:      "Someone broke the coffee machine again.\n---",
			ExpectedText: "Someone broke the coffee machine again.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			srv := completionServer(t, http.StatusOK, tc.Content, nil)
			defer srv.Close()

			ctl, err := rewrite.NewController(
				rewrite.WithBaseURL(srv.URL),
				rewrite.WithAPIKey("sk-test"))
			require.NoError(t, err)

			result, err := ctl.Rewrite(context.Background(), "coffee machine broke", relay.LanguageEnglish)
			require.NoError(t, err)
			assert.Equal(t, tc.ExpectedText, result.Text)
			assert.Equal(t, tc.ExpectedCommentary, result.Commentary)
		})
	}
}

func TestController_Rewrite_PromptLanguage(t *testing.T) {
	var prompt string
	srv := completionServer(t, http.StatusOK, "다듬은 메시지\n---\n한마디", &prompt)
	defer srv.Close()

	ctl, err := rewrite.NewController(
		rewrite.WithBaseURL(srv.URL),
		rewrite.WithAPIKey("sk-test"))
	require.NoError(t, err)

	result, err := ctl.Rewrite(context.Background(), "커피 머신이 고장났어요", relay.LanguageKorean)
	require.NoError(t, err)
	assert.Contains(t, prompt, "한국어로")
	assert.Equal(t, "다듬은 메시지", result.Text)
	assert.Equal(t, "한마디", result.Commentary)
}

func TestController_Rewrite_APIError(t *testing.T) {
	srv := completionServer(t, http.StatusTooManyRequests, "rate limited", nil)
	defer srv.Close()

	ctl, err := rewrite.NewController(
		rewrite.WithBaseURL(srv.URL),
		rewrite.WithAPIKey("sk-test"))
	require.NoError(t, err)

	_, err = ctl.Rewrite(context.Background(), "hello", relay.LanguageEnglish)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestNewController_RequiresAPIKey(t *testing.T) {
	_, err := rewrite.NewController()
	assert.Error(t, err)
}
