package httpserver

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeStopsOnCancel(t *testing.T) {
	srv := New("127.0.0.1:0", http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, srv, time.Second)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeReportsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := New(ln.Addr().String(), http.NotFoundHandler())
	err = Serve(context.Background(), srv, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server")
}

func TestNewTimeouts(t *testing.T) {
	srv := New(":8080", http.NotFoundHandler())
	assert.Equal(t, ":8080", srv.Addr)
	assert.Greater(t, srv.WriteTimeout, 30*time.Second)
	assert.NotZero(t, srv.ReadHeaderTimeout)
}
