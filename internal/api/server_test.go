package api_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tetrisgame-go/internal/api"
	"github.com/mcoot/tetrisgame-go/internal/factory"
	"github.com/mcoot/tetrisgame-go/internal/testutil"
)

func TestServerServesAndShutsDown(t *testing.T) {
	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	handler := api.NewRouter(api.RouterConfig{
		Logger:         app.Logger,
		AuthService:    app.AuthService,
		SessionManager: app.SessionManager,
		Storage:        app.Storage,
	})

	cfg := api.DefaultServerConfig()
	cfg.ShutdownTimeout = time.Second
	server := api.NewServer(handler, cfg, testutil.NopLogger())
	assert.Equal(t, ":8080", server.Addr())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- server.Serve(ln) }()

	require.Eventually(t, func() bool {
		return server.Addr() == ln.Addr().String()
	}, time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + server.Addr() + "/api/v1/health")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")

	require.NoError(t, server.Shutdown(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}

func TestServerStartFailsOnBadAddress(t *testing.T) {
	cfg := api.DefaultServerConfig()
	cfg.Host = "256.0.0.1"
	server := api.NewServer(http.NotFoundHandler(), cfg, testutil.NopLogger())

	assert.Error(t, server.Start())
}
