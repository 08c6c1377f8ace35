// Package testnats runs a NATS testcontainer shared by the tests of one
// package.
package testnats

import (
	"context"
	"sync"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"
)

var (
	sharedContainer *NATSContainer
	sharedOnce      sync.Once
)

type NATSContainer struct {
	Container *tcnats.NATSContainer
	URL       string

	mu   sync.Mutex
	conn *nats.Conn
}

// SetupSharedNATS starts one container per test binary.
// Tests using it CANNOT run in parallel.
func SetupSharedNATS(t *testing.T) *NATSContainer {
	t.Helper()

	sharedOnce.Do(func() {
		ctx := context.Background()

		container, err := tcnats.Run(ctx, "nats:2.10-alpine")
		require.NoError(t, err)

		url, err := container.ConnectionString(ctx)
		require.NoError(t, err)

		sharedContainer = &NATSContainer{
			Container: container,
			URL:       url,
		}
	})

	require.NotNil(t, sharedContainer, "nats container failed to start")
	return sharedContainer
}

// Subscribe listens on subject until the calling test ends. The
// subscription is registered with the server before it is returned, so
// anything published afterwards is delivered.
func (nc *NATSContainer) Subscribe(t *testing.T, subject string) *nats.Subscription {
	t.Helper()

	conn := nc.connection(t)
	sub, err := conn.SubscribeSync(subject)
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	t.Cleanup(func() { _ = sub.Unsubscribe() })
	return sub
}

func (nc *NATSContainer) connection(t *testing.T) *nats.Conn {
	t.Helper()

	nc.mu.Lock()
	defer nc.mu.Unlock()

	if nc.conn == nil || nc.conn.IsClosed() {
		conn, err := nats.Connect(nc.URL, nats.Name("school-service-test"))
		require.NoError(t, err)
		nc.conn = conn
	}
	return nc.conn
}

func (nc *NATSContainer) Cleanup(t *testing.T) {
	t.Helper()

	nc.mu.Lock()
	if nc.conn != nil {
		nc.conn.Close()
	}
	nc.mu.Unlock()

	if nc.Container != nil {
		if err := nc.Container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
}
