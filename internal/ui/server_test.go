package ui

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/pkg/db"
	"github.com/thep200/github-trending/pkg/log"
)

func TestServer_ServeAndStop(t *testing.T) {
	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)
	config.Database.Path = filepath.Join(t.TempDir(), "trending.db")

	database, err := db.NewDatabase(config)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	srv, err := NewServer(log.Discard(), config, database, 0)
	require.NoError(t, err)
	assert.Equal(t, config.Ui.Port, srv.port)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	url := fmt.Sprintf("http://%s/healthz", ln.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.NoError(t, <-done)
}
