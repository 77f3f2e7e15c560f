package service

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid"
	"golang.org/x/sync/errgroup"

	"github.com/eduardoinoa18/memorybox/pkg/configs"
	ctxPkg "github.com/eduardoinoa18/memorybox/pkg/context"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
	mlog "github.com/eduardoinoa18/memorybox/pkg/log"
	"github.com/eduardoinoa18/memorybox/pkg/queue"
)

// BatchOptions configures one batch upload run.
type BatchOptions struct {
	// Tier is the caller's plan; every file in the batch is validated
	// against it.
	Tier configs.PlanTier

	// OnProgress receives per-file transfer progress keyed by the
	// file's global index in the request order.
	OnProgress types.BatchProgressFunc

	// OnFileDone fires once per file when its pipeline settles, success
	// or failure.
	OnFileDone func(result types.BatchFileResult)

	// OnComplete fires once, after every file has settled.
	OnComplete func(resp *types.BatchUploadResponse)
}

// BatchUpload uploads candidates in consecutive chunks of the configured
// concurrency: inside a chunk every file runs concurrently, and a chunk
// settles completely before the next one starts. Failures are isolated per
// file and recorded in the response; BatchUpload itself never fails.
//
// There is no batch-level abort: cancelling ctx cancels the in-flight files,
// and the remaining ones settle as canceled.
func (s *MemoryService) BatchUpload(ctx context.Context, userID string, candidates []types.UploadCandidate, opts BatchOptions) *types.BatchUploadResponse {
	total := len(candidates)
	results := make([]types.BatchFileResult, total)

	chunkSize := s.cfg.MaxConcurrent
	if chunkSize <= 0 {
		chunkSize = configs.DefaultBatchMaxConcurrent
	}

	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)

		var g errgroup.Group

		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = s.uploadOne(ctx, userID, i, total, candidates[i], opts)

				if opts.OnFileDone != nil {
					opts.OnFileDone(results[i])
				}

				// Errors stay in the result; a failed file never
				// aborts its chunk.
				return nil
			})
		}

		_ = g.Wait()
	}

	resp := &types.BatchUploadResponse{Results: results, Total: total}

	for _, r := range results {
		if r.Success {
			resp.Successful++
		} else {
			resp.Failed++
		}
	}

	s.publishBatchCompleted(ctx, userID, resp)

	if opts.OnComplete != nil {
		opts.OnComplete(resp)
	}

	return resp
}

func (s *MemoryService) uploadOne(ctx context.Context, userID string, index, total int, candidate types.UploadCandidate, opts BatchOptions) types.BatchFileResult {
	var progress types.ProgressFunc
	if opts.OnProgress != nil {
		progress = func(fraction float64) {
			opts.OnProgress(index, total, fraction)
		}
	}

	result, err := s.Upload(ctx, userID, opts.Tier, candidate, progress)
	if err != nil {
		return types.BatchFileResult{
			Index:     index,
			FileName:  candidate.FileName,
			Error:     err.Error(),
			ErrorKind: classifyError(err),
		}
	}

	return types.BatchFileResult{
		Index:    index,
		FileName: candidate.FileName,
		Success:  true,
		Result:   result,
	}
}

func (s *MemoryService) publishBatchCompleted(ctx context.Context, userID string, resp *types.BatchUploadResponse) {
	if !s.eventsEnabled(s.eventsCfg.Memory.BatchCompleted) {
		return
	}

	batchID := ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String()

	err := queue.PublishBatchCompleted(s.mqClient.Publisher(), queue.BatchCompletedPayload{
		UserID:    userID,
		BatchID:   batchID,
		Total:     resp.Total,
		Succeeded: resp.Successful,
		Failed:    resp.Failed,
	})
	if err != nil {
		logger := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
		logger.Warn().Err(err).Str("user", userID).Msg("publish batch completed event failed")
	}
}
