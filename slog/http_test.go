package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/fwojciec/webpo"
	"github.com/fwojciec/webpo/mock"
	poslog "github.com/fwojciec/webpo/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingHTTPClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with status, bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.HTTPClient{
			DoFn: func(ctx context.Context, req *webpo.HTTPRequest) (*webpo.HTTPResponse, error) {
				return &webpo.HTTPResponse{URL: webpo.ResponseURL(req.URL), Status: http.StatusOK, Body: []byte("<html>content</html>")}, nil
			},
		}

		client := poslog.NewLoggingHTTPClient(inner, logger)
		resp, err := webpo.Get(context.Background(), client, "https://example.com/p")

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "method=GET")
		assert.Contains(t, output, "url=https://example.com/p")
		assert.Contains(t, output, "status=200")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.HTTPClient{
			DoFn: func(ctx context.Context, req *webpo.HTTPRequest) (*webpo.HTTPResponse, error) {
				return nil, errors.New("network error")
			},
		}

		client := poslog.NewLoggingHTTPClient(inner, logger)
		_, err := webpo.Get(context.Background(), client, "https://example.com/p")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "status=0")
		assert.Contains(t, output, "err=\"network error\"")
	})
}
