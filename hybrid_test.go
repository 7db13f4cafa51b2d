package kensa

import (
	"context"
	"testing"
)

func constBatch(verdict bool, calls *[][]any) BatchFunc {
	return func(ctx context.Context, items []any) []bool {
		if calls != nil {
			*calls = append(*calls, items)
		}
		out := make([]bool, len(items))
		for i := range out {
			out[i] = verdict
		}
		return out
	}
}

func TestHybridStaysManagedOnCleanBatch(t *testing.T) {
	var managedCalls, nativeCalls [][]any
	h := NewHybrid(constBatch(true, &managedCalls), constBatch(false, &nativeCalls))
	items := make([]any, 500)
	res := h.Validate(context.Background(), items)
	if len(nativeCalls) != 0 {
		t.Fatalf("native path should not run")
	}
	// one sample pass plus one full pass, both on the managed path
	if len(managedCalls) != 2 {
		t.Fatalf("managed calls = %d", len(managedCalls))
	}
	if len(managedCalls[0]) != 200 || len(managedCalls[1]) != 500 {
		t.Fatalf("call sizes = %d, %d", len(managedCalls[0]), len(managedCalls[1]))
	}
	if len(res) != 500 || !res[0] {
		t.Fatalf("res = %v...", res[0])
	}
}

func TestHybridDispatchesNativeOnInvalidHeavyBatch(t *testing.T) {
	var nativeCalls [][]any
	h := NewHybrid(constBatch(false, nil), constBatch(true, &nativeCalls))
	items := make([]any, 500)
	res := h.Validate(context.Background(), items)
	if len(nativeCalls) != 1 {
		t.Fatalf("native calls = %d", len(nativeCalls))
	}
	// the native pass revalidates the whole batch, sample included
	if len(nativeCalls[0]) != 500 {
		t.Fatalf("native call size = %d", len(nativeCalls[0]))
	}
	if !res[0] {
		t.Fatalf("native verdicts should be returned")
	}
}

func TestHybridSampleClampsToBatchSize(t *testing.T) {
	var managedCalls [][]any
	h := NewHybrid(constBatch(true, &managedCalls), constBatch(false, nil))
	h.Validate(context.Background(), make([]any, 5))
	if len(managedCalls[0]) != 5 {
		t.Fatalf("sample size = %d", len(managedCalls[0]))
	}
}

func TestHybridOptions(t *testing.T) {
	var managedCalls [][]any
	// threshold 1.0 keeps even an all-invalid batch on the managed path
	h := NewHybrid(constBatch(false, &managedCalls), constBatch(true, nil),
		WithSampleSize(10), WithThreshold(1.0))
	res := h.Validate(context.Background(), make([]any, 100))
	if len(managedCalls[0]) != 10 {
		t.Fatalf("sample size = %d", len(managedCalls[0]))
	}
	if res[0] {
		t.Fatalf("managed verdicts should be returned")
	}
}

func TestHybridEmptyBatch(t *testing.T) {
	h := NewHybrid(constBatch(true, nil), constBatch(false, nil))
	if got := h.Validate(context.Background(), nil); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}
