package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook/core/internal/adapters/notify"
	"github.com/daybook/core/internal/infrastructure/config"
	"github.com/daybook/core/internal/infrastructure/logger"
)

type memKV struct {
	data map[string]string
}

func (s *memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memKV) Set(_ context.Context, key, value string) error {
	s.data[key] = value
	return nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: 8080, Host: "127.0.0.1"},
		Storage: config.StorageConfig{Backend: "file", Dir: t.TempDir()},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: "*",
			RateLimitRequests:  100,
		},
	}

	nop := logger.NewNop()
	gateway := notify.NewTimerGateway(notify.NewLogSender(nop), true, nop)

	srv, err := New(cfg, &memKV{data: make(map[string]string)}, gateway, nop)
	require.NoError(t, err)
	return srv
}

func TestRoutesRegistered(t *testing.T) {
	srv := newTestServer(t)

	paths := make(map[string]bool)
	for _, r := range srv.echo.Routes() {
		paths[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"GET /health",
		"GET /ready",
		"GET /docs/*",
		"GET /api/v1/events",
		"POST /api/v1/events",
		"GET /api/v1/events/upcoming",
		"GET /api/v1/events/:id",
		"PUT /api/v1/events/:id",
		"DELETE /api/v1/events/:id",
		"POST /api/v1/notifications/permission",
		"GET /api/v1/calendar.ics",
	} {
		assert.True(t, paths[route], "missing route %s", route)
	}
}

func TestRearmRemindersOnEmptyStore(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.RearmReminders(context.Background()))
	assert.Equal(t, 0, srv.gateway.ArmedCount())
}
