package generate_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studykit/pkg/generate"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, v any) *http.Response {
	b, _ := json.Marshal(v)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
	}
}

func TestClientGenerate(t *testing.T) {
	httpClient := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/v1/chat/completions", req.URL.Path)
			assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))

			var in struct {
				Model    string `json:"model"`
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
			assert.Equal(t, "test-model", in.Model)
			require.Len(t, in.Messages, 1)
			assert.Equal(t, "user", in.Messages[0].Role)
			assert.Equal(t, "hello", in.Messages[0].Content)

			return jsonResponse(http.StatusOK, map[string]any{
				"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": "world"}}},
			}), nil
		}),
	}

	c := generate.NewClientWithHTTPClient(generate.ClientConfig{
		BaseURL: "http://upstream/",
		APIKey:  "secret",
		Model:   "test-model",
	}, httpClient)

	out, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", out)
}

func TestClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("quota exceeded"))
	}))
	defer srv.Close()

	c := generate.NewClient(generate.ClientConfig{BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), "x")

	var httpErr *generate.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Equal(t, "quota exceeded", httpErr.Body)
}

func TestClientNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := generate.NewClient(generate.ClientConfig{BaseURL: srv.URL}).Generate(context.Background(), "x")
	assert.Error(t, err)
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := generate.NewClient(generate.ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGeneratorFunc(t *testing.T) {
	var g generate.Generator = generate.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "echo " + prompt, nil
	})
	out, err := g.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "echo x", out)
}
