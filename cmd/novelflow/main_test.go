package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thinkwright/novelflow/internal/config"
	"go.uber.org/zap"
)

// useBackend points the package globals at srv with throwaway storage.
func useBackend(t *testing.T, srv *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	prevCfg, prevLogger, prevFormat := cfg, logger, outputFormat
	t.Cleanup(func() { cfg, logger, outputFormat = prevCfg, prevLogger, prevFormat })

	cfg = config.DefaultConfig()
	cfg.APIURL = srv.URL + "/api/v1"
	logger = zap.NewNop()
	outputFormat = "text"
}

func newTestCommand(ctx context.Context) (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetContext(ctx)
	c.SetOut(&out)
	return c, &out
}

func TestProjectsList_Table(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1","title":"Salt","status":"writing","current_word_count":1200,"target_word_count":80000}]`))
	}))
	defer srv.Close()
	useBackend(t, srv)

	c, out := newTestCommand(context.Background())
	require.NoError(t, runProjectsList(c, nil))
	assert.Contains(t, out.String(), "Salt")
	assert.Contains(t, out.String(), "1,200 / 80,000")
}

func TestProjectsList_CanceledByCommandContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)
	useBackend(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	c, _ := newTestCommand(ctx)
	time.AfterFunc(50*time.Millisecond, cancel)

	done := make(chan error, 1)
	go func() { done <- runProjectsList(c, nil) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled), "err = %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("request did not stop when the command context was canceled")
	}
}
