package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/eduardoinoa18/memorybox/pkg/configs"
	ctxPkg "github.com/eduardoinoa18/memorybox/pkg/context"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
	mlog "github.com/eduardoinoa18/memorybox/pkg/log"
	"github.com/eduardoinoa18/memorybox/pkg/metrics"
	"github.com/eduardoinoa18/memorybox/pkg/queue"
)

// TransformResult is the output of one media transform.
type TransformResult struct {
	Data        []byte
	ContentType string
	// Ext is the output extension, dot included (".jpg").
	Ext string
	// Width and Height are the output pixel dimensions.
	Width  int
	Height int
}

// Transformer converts media bytes according to the compression policy.
// Implementations must not mutate the input slice.
type Transformer interface {
	Transform(ctx context.Context, data []byte, cfg configs.CompressionConfig) (*TransformResult, error)
}

// imagingTransformer is the default Transformer: decode, aspect-preserving
// fit into the configured bounds, re-encode as JPEG.
type imagingTransformer struct{}

// NewImagingTransformer returns the image Transformer used by default.
func NewImagingTransformer() Transformer {
	return imagingTransformer{}
}

func (imagingTransformer) Transform(_ context.Context, data []byte, cfg configs.CompressionConfig) (*TransformResult, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	fitted := imaging.Fit(img, cfg.MaxWidth, cfg.MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer

	quality := int(cfg.Quality * 100)
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	bounds := fitted.Bounds()

	return &TransformResult{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Ext:         ".jpg",
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

// ProcessCandidate runs the processing stage. Non-image files and disabled
// compression pass through untouched. A failed transform degrades gracefully:
// the original bytes go forward unchanged, the fallback is logged, counted
// and published, and the caller never sees an error from this stage.
func (s *MemoryService) ProcessCandidate(ctx context.Context, userID string, candidate types.UploadCandidate) *types.ProcessedFile {
	if !s.cfg.Compression.Enabled || !isImage(candidate.ContentType) {
		return passthrough(candidate, "")
	}

	data, err := io.ReadAll(candidate.Reader)
	if err != nil {
		// A broken source reader cannot be degraded around; surface it
		// at the transfer stage where it belongs.
		out := passthrough(candidate, "")
		out.Reader = errReader{fmt.Errorf("read source: %w", err)}

		return out
	}

	result, err := s.transformer.Transform(ctx, data, s.cfg.Compression)
	if err != nil {
		s.reportDegrade(ctx, userID, candidate, err)

		out := passthrough(candidate, err.Error())
		out.SizeBytes = int64(len(data))
		out.OriginalSizeBytes = int64(len(data))
		out.Reader = bytes.NewReader(data)

		return out
	}

	return &types.ProcessedFile{
		FileName:          replaceExt(candidate.FileName, result.Ext),
		ContentType:       result.ContentType,
		SizeBytes:         int64(len(result.Data)),
		OriginalSizeBytes: candidate.SizeBytes,
		Width:             result.Width,
		Height:            result.Height,
		Transformed:       true,
		Reader:            bytes.NewReader(result.Data),
	}
}

func (s *MemoryService) reportDegrade(ctx context.Context, userID string, candidate types.UploadCandidate, cause error) {
	logger := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
	logger.Warn().
		Err(cause).
		Str("user", userID).
		Str("file", candidate.FileName).
		Str("content_type", candidate.ContentType).
		Msg("image processing failed, storing original")

	metrics.ProcessorFallbacks.Inc()

	if s.eventsEnabled(s.eventsCfg.Memory.ProcessDegraded) {
		if err := queue.PublishProcessDegraded(s.mqClient.Publisher(), queue.ProcessDegradedPayload{
			UserID:      userID,
			FileName:    candidate.FileName,
			ContentType: candidate.ContentType,
			Reason:      cause.Error(),
		}); err != nil {
			logger.Warn().Err(err).Msg("publish process degraded event failed")
		}
	}
}

func passthrough(candidate types.UploadCandidate, degradeReason string) *types.ProcessedFile {
	return &types.ProcessedFile{
		FileName:          candidate.FileName,
		ContentType:       candidate.ContentType,
		SizeBytes:         candidate.SizeBytes,
		OriginalSizeBytes: candidate.SizeBytes,
		Transformed:       false,
		DegradeReason:     degradeReason,
		Reader:            candidate.Reader,
	}
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }
