package format

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// Bridge state machine values.
const (
	stateUninitialized int32 = iota
	stateInitializing
	stateReady
	stateFailed
)

// ErrNotReady is returned by guest-path operations before Init has succeeded.
var ErrNotReady = errors.New("format: bridge not initialized")

// Bridge exposes format validation through a compiled WebAssembly module.
// The module contract is a C-compatible function table: one export
// "validate_<format>(ptr, len) -> i32" per format, an "alloc(size) -> ptr"
// export for guest buffers, and optional batch exports
// "validate_<format>_batch(ptr, stride, count, out_ptr)".
//
// Initialization is process-wide and idempotent: the first Init caller wins
// and performs the load; concurrent callers wait on the same in-flight
// initialization. Every guest failure degrades to a false verdict (falling
// back to the in-process validators), never to a fault.
type Bridge struct {
	log *zap.Logger

	state   atomic.Int32
	readyCh chan struct{}
	initErr error

	runtime wazero.Runtime
	mod     api.Module

	// guest calls on one module instance are serialized
	callMu   sync.Mutex
	fns      map[Format]api.Function
	batchFns map[Format]api.Function
	alloc    api.Function
	bufPtr   uint64
	bufCap   uint64
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithLogger injects a structured logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) BridgeOption {
	return func(b *Bridge) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBridge returns an uninitialized bridge. Validate works immediately via
// the in-process validators; the guest path activates after Init.
func NewBridge(opts ...BridgeOption) *Bridge {
	b := &Bridge{
		log:     zap.NewNop(),
		readyCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ready reports whether the guest module is loaded and resolvable.
func (b *Bridge) Ready() bool { return b.state.Load() == stateReady }

// Init compiles and instantiates the validator module. The first caller
// performs the work; later callers block until it finishes and observe the
// same error. Init never needs to be retried: a failed load leaves the
// bridge permanently on the in-process fallback.
func (b *Bridge) Init(ctx context.Context, wasmBytes []byte) error {
	if b.state.CompareAndSwap(stateUninitialized, stateInitializing) {
		err := b.load(ctx, wasmBytes)
		if err != nil {
			b.initErr = err
			b.state.Store(stateFailed)
			b.log.Warn("native validator module load failed; staying on host path", zap.Error(err))
		} else {
			b.state.Store(stateReady)
			b.log.Info("native validator module ready",
				zap.Int("validators", len(b.fns)),
				zap.Int("batch_validators", len(b.batchFns)))
		}
		close(b.readyCh)
		return err
	}
	select {
	case <-b.readyCh:
		return b.initErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bridge) load(ctx context.Context, wasmBytes []byte) error {
	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())
	compiled, err := runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		_ = runtime.Close(ctx)
		return err
	}
	mod, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("kensa-format"))
	if err != nil {
		_ = runtime.Close(ctx)
		return err
	}
	alloc := mod.ExportedFunction("alloc")
	if alloc == nil {
		_ = runtime.Close(ctx)
		return errors.New("format: module missing alloc export")
	}
	fns := make(map[Format]api.Function)
	batchFns := make(map[Format]api.Function)
	for _, f := range Formats() {
		if fn := mod.ExportedFunction("validate_" + string(f)); fn != nil {
			fns[f] = fn
		} else {
			b.log.Debug("format export missing, host fallback", zap.String("format", string(f)))
		}
		if fn := mod.ExportedFunction("validate_" + string(f) + "_batch"); fn != nil {
			batchFns[f] = fn
		}
	}
	if len(fns) == 0 {
		_ = runtime.Close(ctx)
		return errors.New("format: module exports no validators")
	}
	b.runtime = runtime
	b.mod = mod
	b.alloc = alloc
	b.fns = fns
	b.batchFns = batchFns
	return nil
}

// Close releases the guest runtime. The bridge keeps serving verdicts via
// the in-process validators afterwards.
func (b *Bridge) Close(ctx context.Context) error {
	b.callMu.Lock()
	defer b.callMu.Unlock()
	if b.runtime == nil {
		return nil
	}
	err := b.runtime.Close(ctx)
	b.runtime = nil
	b.mod = nil
	b.fns = nil
	b.batchFns = nil
	b.alloc = nil
	return err
}

// Validate returns the verdict for data against f. When the guest path is
// unavailable for any reason it falls back to the in-process validator, so
// the verdict is always produced.
func (b *Bridge) Validate(ctx context.Context, f Format, data []byte) bool {
	if b.state.Load() == stateReady {
		if ok, err := b.callGuest(ctx, f, data); err == nil {
			return ok
		} else if !errors.Is(err, ErrNotReady) {
			b.log.Warn("guest validator failed, host fallback",
				zap.String("format", string(f)), zap.Error(err))
		}
	}
	return Validate(f, data)
}

// ValidateBatch fills out with one verdict byte per input, using the guest
// batch export when present and the host batch loop otherwise.
func (b *Bridge) ValidateBatch(ctx context.Context, f Format, inputs [][]byte, out []byte) {
	if b.state.Load() == stateReady {
		if b.callGuestBatch(ctx, f, inputs, out) {
			return
		}
	}
	ValidateBatch(f, inputs, out)
}

func (b *Bridge) callGuest(ctx context.Context, f Format, data []byte) (bool, error) {
	b.callMu.Lock()
	defer b.callMu.Unlock()
	fn := b.fns[f]
	if fn == nil || b.mod == nil {
		return false, ErrNotReady
	}
	ptr, err := b.guestWrite(ctx, data)
	if err != nil {
		return false, err
	}
	res, err := fn.Call(ctx, ptr, uint64(len(data)))
	if err != nil {
		return false, err
	}
	return len(res) > 0 && int32(res[0]) != 0, nil
}

// callGuestBatch lays inputs out as fixed-stride records (4-byte length
// prefix + payload) and reads one result byte per input.
func (b *Bridge) callGuestBatch(ctx context.Context, f Format, inputs [][]byte, out []byte) bool {
	b.callMu.Lock()
	defer b.callMu.Unlock()
	fn := b.batchFns[f]
	if fn == nil || b.mod == nil || len(inputs) == 0 {
		return false
	}
	stride := 0
	for _, in := range inputs {
		if len(in) > stride {
			stride = len(in)
		}
	}
	stride += 4
	total := uint64(stride * len(inputs))
	buf := make([]byte, total)
	for i, in := range inputs {
		off := i * stride
		le32put(buf[off:], uint32(len(in)))
		copy(buf[off+4:], in)
	}
	ptr, err := b.guestWrite(ctx, buf)
	if err != nil {
		return false
	}
	outPtr, err := b.guestAlloc(ctx, uint64(len(inputs)))
	if err != nil {
		return false
	}
	if _, err := fn.Call(ctx, ptr, uint64(stride), uint64(len(inputs)), outPtr); err != nil {
		b.log.Warn("guest batch validator failed, host fallback",
			zap.String("format", string(f)), zap.Error(err))
		return false
	}
	res, ok := b.mod.Memory().Read(uint32(outPtr), uint32(len(inputs)))
	if !ok {
		return false
	}
	copy(out, res)
	return true
}

func (b *Bridge) guestWrite(ctx context.Context, data []byte) (uint64, error) {
	if uint64(len(data)) > b.bufCap {
		ptr, err := b.guestAlloc(ctx, uint64(len(data)))
		if err != nil {
			return 0, err
		}
		b.bufPtr, b.bufCap = ptr, uint64(len(data))
	}
	if len(data) > 0 && !b.mod.Memory().Write(uint32(b.bufPtr), data) {
		return 0, errors.New("format: guest memory write out of range")
	}
	return b.bufPtr, nil
}

func (b *Bridge) guestAlloc(ctx context.Context, size uint64) (uint64, error) {
	res, err := b.alloc.Call(ctx, size)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, errors.New("format: alloc returned nothing")
	}
	return res[0], nil
}

func le32put(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
