package store_test

import (
	"context"
	"testing"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/handytools/internal/store"
)

// startTestServer starts an in-memory NATS server with JetStream enabled
func startTestServer(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1
	opts.JetStream = true
	opts.StoreDir = t.TempDir()
	natsServer := test.RunServer(&opts)

	conn, err := nats.Connect(natsServer.ClientURL())
	if err != nil {
		natsServer.Shutdown()
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	return natsServer, conn
}

func TestNATSSinkPutGet(t *testing.T) {
	natsServer, conn := startTestServer(t)
	defer natsServer.Shutdown()
	defer conn.Close()

	js, err := conn.JetStream()
	require.NoError(t, err)

	sink, err := store.NewNATSSink(js, "downloads")
	require.NoError(t, err)

	ctx := context.Background()
	payload := []byte("\x89PNG fake payload")
	require.NoError(t, sink.Put(ctx, "edited-image.png", "image/png", payload))

	got, err := sink.Get(ctx, "edited-image.png")
	require.NoError(t, err)
	require.Equal(t, payload, got)
	require.Equal(t, "nats://downloads/edited-image.png", sink.Location("edited-image.png"))
}

func TestNATSSinkBindsExistingBucket(t *testing.T) {
	natsServer, conn := startTestServer(t)
	defer natsServer.Shutdown()
	defer conn.Close()

	js, err := conn.JetStream()
	require.NoError(t, err)

	first, err := store.NewNATSSink(js, "shared")
	require.NoError(t, err)
	require.NoError(t, first.Put(context.Background(), "a.png", "image/png", []byte("a")))

	second, err := store.NewNATSSink(js, "shared")
	require.NoError(t, err)

	got, err := second.Get(context.Background(), "a.png")
	require.NoError(t, err)
	require.Equal(t, []byte("a"), got)
}

func TestNATSSinkRejectsEmptyKey(t *testing.T) {
	natsServer, conn := startTestServer(t)
	defer natsServer.Shutdown()
	defer conn.Close()

	js, err := conn.JetStream()
	require.NoError(t, err)

	sink, err := store.NewNATSSink(js, "empty-key")
	require.NoError(t, err)
	require.ErrorIs(t, sink.Put(context.Background(), "", "image/png", nil), store.ErrEmptyKey)
}
