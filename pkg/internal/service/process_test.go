package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/eduardoinoa18/memorybox/pkg/configs"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
)

type fakeTransformer struct {
	result *TransformResult
	err    error
	calls  int
}

func (f *fakeTransformer) Transform(_ context.Context, _ []byte, _ configs.CompressionConfig) (*TransformResult, error) {
	f.calls++

	return f.result, f.err
}

func newProcessTestService(tr Transformer) *MemoryService {
	return &MemoryService{cfg: testUploadConfig(), transformer: tr}
}

func TestProcessCandidateNonImagePassthrough(t *testing.T) {
	tr := &fakeTransformer{}
	svc := newProcessTestService(tr)

	src := []byte("hello memories")
	out := svc.ProcessCandidate(context.Background(), "u1", types.UploadCandidate{
		FileName:    "notes.txt",
		ContentType: "text/plain",
		SizeBytes:   int64(len(src)),
		Reader:      bytes.NewReader(src),
	})

	if out.Transformed {
		t.Error("non-image was marked transformed")
	}

	if tr.calls != 0 {
		t.Errorf("transformer ran %d times for a non-image", tr.calls)
	}

	got, _ := io.ReadAll(out.Reader)
	if !bytes.Equal(got, src) {
		t.Error("passthrough changed the bytes")
	}
}

func TestProcessCandidateDisabledPassthrough(t *testing.T) {
	tr := &fakeTransformer{}
	svc := newProcessTestService(tr)
	svc.cfg.Compression.Enabled = false

	out := svc.ProcessCandidate(context.Background(), "u1", types.UploadCandidate{
		FileName:    "photo.png",
		ContentType: "image/png",
		SizeBytes:   3,
		Reader:      bytes.NewReader([]byte{1, 2, 3}),
	})

	if out.Transformed || tr.calls != 0 {
		t.Error("disabled compression still transformed")
	}
}

func TestProcessCandidateTransformSuccess(t *testing.T) {
	compressed := []byte("jpeg bytes")
	tr := &fakeTransformer{result: &TransformResult{
		Data:        compressed,
		ContentType: "image/jpeg",
		Ext:         ".jpg",
		Width:       1620,
		Height:      1080,
	}}
	svc := newProcessTestService(tr)

	src := []byte("png bytes, much larger")
	out := svc.ProcessCandidate(context.Background(), "u1", types.UploadCandidate{
		FileName:    "photo.png",
		ContentType: "image/png",
		SizeBytes:   int64(len(src)),
		Reader:      bytes.NewReader(src),
	})

	if !out.Transformed {
		t.Fatal("transform result not applied")
	}

	if out.FileName != "photo.jpg" {
		t.Errorf("file name = %q, want photo.jpg", out.FileName)
	}

	if out.ContentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", out.ContentType)
	}

	if out.SizeBytes != int64(len(compressed)) {
		t.Errorf("size = %d, want %d", out.SizeBytes, len(compressed))
	}

	if out.OriginalSizeBytes != int64(len(src)) {
		t.Errorf("original size = %d, want %d", out.OriginalSizeBytes, len(src))
	}

	if out.Width != 1620 || out.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1620x1080", out.Width, out.Height)
	}

	got, _ := io.ReadAll(out.Reader)
	if !bytes.Equal(got, compressed) {
		t.Error("reader does not serve the transformed bytes")
	}
}

// A failed transform never fails the pipeline: the original bytes move
// forward and the reason is recorded.
func TestProcessCandidateGracefulDegrade(t *testing.T) {
	tr := &fakeTransformer{err: errors.New("corrupt header")}
	svc := newProcessTestService(tr)

	src := []byte("not really an image")
	out := svc.ProcessCandidate(context.Background(), "u1", types.UploadCandidate{
		FileName:    "broken.png",
		ContentType: "image/png",
		SizeBytes:   int64(len(src)),
		Reader:      bytes.NewReader(src),
	})

	if out.Transformed {
		t.Error("failed transform marked as transformed")
	}

	if out.DegradeReason == "" {
		t.Error("degrade reason not recorded")
	}

	if out.FileName != "broken.png" {
		t.Errorf("degraded file renamed to %q", out.FileName)
	}

	got, _ := io.ReadAll(out.Reader)
	if !bytes.Equal(got, src) {
		t.Error("degraded output lost the original bytes")
	}
}

func TestImagingTransformerResizes(t *testing.T) {
	// 100x50 solid image, bounds 10x10: fit keeps aspect, so 10x5.
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	out, err := NewImagingTransformer().Transform(context.Background(), buf.Bytes(), configs.CompressionConfig{
		Quality:   0.8,
		MaxWidth:  10,
		MaxHeight: 10,
	})
	if err != nil {
		t.Fatal(err)
	}

	if out.ContentType != "image/jpeg" || out.Ext != ".jpg" {
		t.Errorf("output type = %s/%s, want image/jpeg/.jpg", out.ContentType, out.Ext)
	}

	decoded, _, err := image.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("output is not a decodable image: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 10 || bounds.Dy() != 5 {
		t.Errorf("resized to %dx%d, want 10x5", bounds.Dx(), bounds.Dy())
	}

	// The fitted dimensions travel with the result, not just the bytes.
	if out.Width != 10 || out.Height != 5 {
		t.Errorf("result dimensions = %dx%d, want 10x5", out.Width, out.Height)
	}
}

// An oversized image comes out of the processing stage with its fitted
// dimensions attached, bounded by the configured box with aspect kept.
func TestProcessCandidateReportsFittedDimensions(t *testing.T) {
	svc := newProcessTestService(NewImagingTransformer())
	svc.cfg.Compression.MaxWidth = 192
	svc.cfg.Compression.MaxHeight = 108

	src := image.NewRGBA(image.Rect(0, 0, 300, 200))

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	out := svc.ProcessCandidate(context.Background(), "u1", types.UploadCandidate{
		FileName:    "photo.png",
		ContentType: "image/png",
		SizeBytes:   int64(buf.Len()),
		Reader:      bytes.NewReader(buf.Bytes()),
	})

	if !out.Transformed {
		t.Fatalf("image was not transformed: %s", out.DegradeReason)
	}

	// 300x200 into 192x108 scales by 0.54, so 162x108.
	if out.Width != 162 || out.Height != 108 {
		t.Errorf("fitted dimensions = %dx%d, want 162x108", out.Width, out.Height)
	}
}

func TestImagingTransformerRejectsGarbage(t *testing.T) {
	_, err := NewImagingTransformer().Transform(context.Background(), []byte("garbage"), configs.CompressionConfig{
		Quality:   0.8,
		MaxWidth:  10,
		MaxHeight: 10,
	})
	if err == nil {
		t.Fatal("expected a decode error")
	}
}
