package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stockpile/stockpile-api/internal/config"
	"github.com/stockpile/stockpile-api/internal/platform/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestOpenBackend(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := testConfig().Database
		backend, err := openBackend(context.Background(), cfg, discardLogger())
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, backend)
		assert.NoError(t, backend.Close(context.Background()))
	})

	t.Run("unsupported driver", func(t *testing.T) {
		cfg := testConfig().Database
		cfg.Driver = "cassandra"
		_, err := openBackend(context.Background(), cfg, discardLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})
}

func TestNewApplication(t *testing.T) {
	t.Run("memory backend without redis", func(t *testing.T) {
		app, err := newApplication(context.Background(), testConfig(), discardLogger())
		require.NoError(t, err)
		t.Cleanup(app.cleanup)

		assert.NotNil(t, app.backend)
		assert.NotNil(t, app.inventoryService)
		assert.NotNil(t, app.newsletterService)
		assert.Nil(t, app.limiter)
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.JWTSecret = "short"
		_, err := newApplication(context.Background(), cfg, discardLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT service")
	})

	t.Run("unreachable redis", func(t *testing.T) {
		cfg := testConfig()
		cfg.Redis.URL = "redis://127.0.0.1:1/0"
		_, err := newApplication(context.Background(), cfg, discardLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis")
	})
}

func TestHandleMigrations_RequiresPostgres(t *testing.T) {
	err := handleMigrations(context.Background(), testConfig(), "up", discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.DriverPostgres)
}

func TestStartHTTPServer_ShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cfg := testConfig()
	cfg.Server.Port = port
	cfg.Server.ShutdownTimeout = time.Second

	app, err := newApplication(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.startHTTPServer(ctx, http.NotFoundHandler())
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
