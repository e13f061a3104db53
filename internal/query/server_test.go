package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServer_Lifecycle(t *testing.T) {
	store, _ := loadedStore(t, glossaryYAML)

	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Querier: store})
	require.NoError(t, err)
	require.NotZero(t, srv.Port())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	c := NewClient(srv.URL())
	require.Eventually(t, func() bool {
		_, err := c.Health(context.Background())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	text, ok := c.Resolve("plos", nil)
	require.True(t, ok)
	require.Equal(t, "Public Library of Science (PLOS)", text)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, <-done)
}

func TestNewServer_BadAddr(t *testing.T) {
	_, err := NewServer(ServerConfig{Addr: "not-an-addr"})
	require.Error(t, err)
}
