package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/eduardoinoa18/memorybox/pkg/configs"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
)

// Candidates that fail validation settle before any storage I/O, which lets
// the coordinator run without a live backend.
func rejectedCandidates(n int) []types.UploadCandidate {
	candidates := make([]types.UploadCandidate, n)
	for i := range candidates {
		candidates[i] = types.UploadCandidate{
			FileName:    fmt.Sprintf("clip-%d.mp4", i),
			ContentType: "video/mp4",
			SizeBytes:   1 << 20,
			Reader:      bytes.NewReader(nil),
		}
	}

	return candidates
}

func TestBatchUploadFailureIsolation(t *testing.T) {
	svc := &MemoryService{cfg: testUploadConfig()}

	var (
		mu       sync.Mutex
		done     []int
		complete int
	)

	resp := svc.BatchUpload(context.Background(), "u1", rejectedCandidates(5), BatchOptions{
		Tier: configs.TierFree,
		OnFileDone: func(r types.BatchFileResult) {
			mu.Lock()
			done = append(done, r.Index)
			mu.Unlock()
		},
		OnComplete: func(_ *types.BatchUploadResponse) {
			complete++
		},
	})

	if resp.Total != 5 || resp.Failed != 5 || resp.Successful != 0 {
		t.Fatalf("totals = %d/%d/%d, want 5 total, 5 failed", resp.Total, resp.Successful, resp.Failed)
	}

	if len(resp.Results) != 5 {
		t.Fatalf("got %d results, want 5", len(resp.Results))
	}

	for i, r := range resp.Results {
		if r.Index != i {
			t.Errorf("result %d carries index %d", i, r.Index)
		}

		if r.Success {
			t.Errorf("result %d unexpectedly succeeded", i)
		}

		if r.ErrorKind != outcomeValidationFailed {
			t.Errorf("result %d kind = %q, want %q", i, r.ErrorKind, outcomeValidationFailed)
		}

		if r.FileName != fmt.Sprintf("clip-%d.mp4", i) {
			t.Errorf("result %d file = %q", i, r.FileName)
		}
	}

	if len(done) != 5 {
		t.Errorf("OnFileDone fired %d times, want 5", len(done))
	}

	if complete != 1 {
		t.Errorf("OnComplete fired %d times, want 1", complete)
	}
}

func TestBatchUploadEmpty(t *testing.T) {
	svc := &MemoryService{cfg: testUploadConfig()}

	var complete int

	resp := svc.BatchUpload(context.Background(), "u1", nil, BatchOptions{
		Tier:       configs.TierFree,
		OnComplete: func(_ *types.BatchUploadResponse) { complete++ },
	})

	if resp.Total != 0 || len(resp.Results) != 0 {
		t.Errorf("empty batch produced %d results", len(resp.Results))
	}

	if complete != 1 {
		t.Errorf("OnComplete fired %d times, want 1", complete)
	}
}

// Chunks settle strictly in order: no file from chunk N+1 starts before
// every file in chunk N is done.
func TestBatchUploadChunkOrdering(t *testing.T) {
	cfg := testUploadConfig()
	cfg.MaxConcurrent = 2
	svc := &MemoryService{cfg: cfg}

	var (
		mu    sync.Mutex
		order []int
	)

	svc.BatchUpload(context.Background(), "u1", rejectedCandidates(6), BatchOptions{
		Tier: configs.TierFree,
		OnFileDone: func(r types.BatchFileResult) {
			mu.Lock()
			order = append(order, r.Index)
			mu.Unlock()
		},
	})

	if len(order) != 6 {
		t.Fatalf("settled %d files, want 6", len(order))
	}

	// Within a chunk the order is free, across chunks it is not.
	for pos, idx := range order {
		chunk := idx / 2
		if pos/2 != chunk {
			t.Fatalf("file %d settled at position %d, outside its chunk", idx, pos)
		}
	}
}

func TestBatchUploadMissingUser(t *testing.T) {
	svc := &MemoryService{cfg: testUploadConfig()}

	resp := svc.BatchUpload(context.Background(), "", rejectedCandidates(2), BatchOptions{Tier: configs.TierFree})

	if resp.Failed != 2 {
		t.Fatalf("failed = %d, want 2", resp.Failed)
	}

	for _, r := range resp.Results {
		if r.Error == "" {
			t.Error("missing-user failure carries no error text")
		}
	}
}
