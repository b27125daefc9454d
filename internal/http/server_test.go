package http

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	httpMocks "adstxt-validator/internal/http/mocks"
	"adstxt-validator/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(addr string) (*Server, *mocks.MockLogger) {
	mockValidation := &httpMocks.MockValidationService{}
	mockCatalog := &mocks.MockCatalogStore{}
	mockHistory := &mocks.MockHistoryStore{}
	mockLogger := mocks.NewRelaxedLogger()
	mockRateLimiter := &httpMocks.MockRateLimiter{}

	handler := NewHandler(mockValidation, mockCatalog, mockHistory, mockLogger)
	server := NewServer(
		ServerConfig{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		handler,
		mockLogger,
		mockRateLimiter,
	)
	return server, mockLogger
}

func TestServer_StartWithInvalidAddr(t *testing.T) {
	server, _ := newTestServer("invalid-address:99999")

	err := server.Start()
	assert.Error(t, err)
}

func TestServer_StartWithPortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	addr := fmt.Sprintf("127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)
	server, _ := newTestServer(addr)

	err = server.Start()
	assert.Error(t, err)
}

func TestServer_GracefulShutdown(t *testing.T) {
	server, _ := newTestServer("127.0.0.1:0")

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	// Give the listener a moment to come up.
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := server.Shutdown(ctx)
	assert.NoError(t, err)

	select {
	case startErr := <-errChan:
		// http.ErrServerClosed is the expected outcome of a clean shutdown.
		assert.ErrorContains(t, startErr, "Server closed")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after shutdown")
	}
}

func TestServer_ShutdownWithoutStart(t *testing.T) {
	server, _ := newTestServer("127.0.0.1:0")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, server.Shutdown(ctx))
}
