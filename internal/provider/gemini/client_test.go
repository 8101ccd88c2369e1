package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogulcanaydogan/aitools/pkg/types"
)

func TestReview_RequestShape(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"), "key must not leak into the URL")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "g-key", BaseURL: srv.URL})
	_, err := c.Review(context.Background(), types.VisionRequest{
		Prompt: "Review the UI design.",
		Model:  "gemini-2.5-flash",
		Image:  []byte{0x89, 'P', 'N', 'G'},
	})
	require.NoError(t, err)

	require.Len(t, got.Contents, 1)
	parts := got.Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "Review the UI design.", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'}), parts[1].InlineData.Data)
}

func TestReview_ConcatenatesFirstCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
		  "modelVersion": "gemini-2.5-flash-001",
		  "candidates": [
		    {"content": {"parts": [{"text": "Increase contrast. "}, {"text": "Tighten spacing."}]}},
		    {"content": {"parts": [{"text": "ignored"}]}}
		  ]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	res, err := c.Review(context.Background(), types.VisionRequest{Prompt: "p", Model: "gemini-2.5-flash", Image: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "Increase contrast. Tighten spacing.", res.Text)
	assert.Equal(t, "gemini-2.5-flash-001", res.Model)
}

func TestReview_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	res, err := c.Review(context.Background(), types.VisionRequest{Prompt: "p", Model: "m", Image: []byte("x")})
	require.NoError(t, err)
	assert.Empty(t, res.Text)
	assert.Equal(t, "m", res.Model)
}

func TestReview_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1beta/models/bad:generateContent" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"model not found"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Review(context.Background(), types.VisionRequest{Prompt: "p", Model: "bad", Image: []byte("x")})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	_, err = c.Review(context.Background(), types.VisionRequest{Prompt: "p", Model: "blocked", Image: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected gemini response")
}
