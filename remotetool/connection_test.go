package remotetool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandipan1/hica/hicaerrors"
)

func TestNotConnectedBeforeConnect(t *testing.T) {
	conn := New(&FakeCaller{})
	_, err := conn.ListTools(context.Background())
	require.Error(t, err)
	kind, ok := hicaerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, hicaerrors.NotConnected, kind)
}

func TestConnectDisconnectIdempotent(t *testing.T) {
	conn := New(&FakeCaller{})
	ctx := context.Background()

	require.NoError(t, conn.Connect(ctx))
	require.NoError(t, conn.Connect(ctx)) // no-op
	assert.True(t, conn.IsConnected())

	require.NoError(t, conn.Disconnect(ctx))
	require.NoError(t, conn.Disconnect(ctx)) // no-op
	assert.False(t, conn.IsConnected())
}

func TestScopedConnectDisconnectsOnError(t *testing.T) {
	conn := New(&FakeCaller{})
	err := conn.ScopedConnect(context.Background(), func(ctx context.Context) error {
		assert.True(t, conn.IsConnected())
		return assert.AnError
	})
	require.Error(t, err)
	assert.False(t, conn.IsConnected())
}

func TestCallToolAfterConnect(t *testing.T) {
	fake := &FakeCaller{
		Tools: []ToolDescriptor{{Name: "echo", Description: "echoes text"}},
	}
	conn := New(fake)
	ctx := context.Background()
	require.NoError(t, conn.Connect(ctx))

	tools, err := conn.ListTools(ctx)
	require.NoError(t, err)
	assert.Len(t, tools, 1)

	_, err = conn.CallTool(ctx, "echo", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo"}, fake.Calls)
}
