package format

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBridgeHostFallbackBeforeInit(t *testing.T) {
	b := NewBridge()
	ctx := context.Background()
	assert.False(t, b.Ready())
	// verdicts come from the host validators while the guest is absent
	assert.True(t, b.Validate(ctx, Email, []byte("a@b.co")))
	assert.False(t, b.Validate(ctx, Email, []byte("nope")))

	inputs := [][]byte{[]byte("a@b.co"), []byte("nope")}
	out := make([]byte, 2)
	b.ValidateBatch(ctx, Email, inputs, out)
	assert.Equal(t, []byte{1, 0}, out)
}

func TestBridgeInitRejectsGarbage(t *testing.T) {
	b := NewBridge(WithLogger(zap.NewNop()))
	ctx := context.Background()
	err := b.Init(ctx, []byte("not a wasm module"))
	require.Error(t, err)
	assert.False(t, b.Ready())

	// a failed load is permanent and every later Init observes the same error
	again := b.Init(ctx, []byte("other bytes"))
	assert.Equal(t, err, again)

	// verdicts still come from the host path
	assert.True(t, b.Validate(ctx, UUID, []byte("123e4567-e89b-12d3-a456-426614174000")))
}

func TestBridgeInitConcurrent(t *testing.T) {
	b := NewBridge()
	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = b.Init(ctx, []byte("garbage"))
		}(i)
	}
	wg.Wait()
	for i := 1; i < 8; i++ {
		assert.Equal(t, errs[0], errs[i], "caller %d", i)
	}
}

func TestBridgeInitHonorsContext(t *testing.T) {
	b := NewBridge()
	// occupy the first-caller slot so the second caller has to wait
	b.state.Store(stateInitializing)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := b.Init(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBridgeCloseIdempotent(t *testing.T) {
	b := NewBridge()
	ctx := context.Background()
	require.NoError(t, b.Close(ctx))
	require.NoError(t, b.Close(ctx))
	assert.True(t, b.Validate(ctx, IPv4, []byte("127.0.0.1")))
}
