package service

import (
	"context"
	"errors"
	"testing"
)

// After a delete both the blob and the record are gone, the aggregates
// return to zero, and a second delete reports NotFound.
func TestDeleteRemovesBlobAndRecord(t *testing.T) {
	svc, blobs := newPipelineTestService(t)

	candidate := textCandidate("notes.txt", "hello memories")
	candidate.FolderID = "f-1"

	result, err := svc.Upload(context.Background(), "u1", "free", candidate, nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	resp, err := svc.Delete(context.Background(), "u1", result.MemoryID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if !resp.Deleted {
		t.Error("delete response not marked deleted")
	}

	if _, ok := blobs.get("memories-test", result.ObjectKey); ok {
		t.Error("blob survived the delete")
	}

	if n := svc.memoryCount(t, "u1"); n != 0 {
		t.Errorf("%d records remain after delete", n)
	}

	stats := svc.userStats(t, "u1")
	if stats.TotalSizeBytes != 0 || stats.MemoryCount != 0 {
		t.Errorf("aggregates not restored: %+v", stats)
	}

	if _, err := svc.Delete(context.Background(), "u1", result.MemoryID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteUnknownMemoryNotFound(t *testing.T) {
	svc, _ := newPipelineTestService(t)

	if _, err := svc.Delete(context.Background(), "u1", "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// A blob removal failure aborts the delete before the record is touched,
// so the index never points into the void.
func TestDeleteBlobFailureKeepsRecord(t *testing.T) {
	svc, blobs := newPipelineTestService(t)

	result, err := svc.Upload(context.Background(), "u1", "free", textCandidate("notes.txt", "hello"), nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	blobs.removeErr = errors.New("backend unavailable")

	if _, err := svc.Delete(context.Background(), "u1", result.MemoryID); err == nil {
		t.Fatal("delete succeeded despite the blob failure")
	}

	if n := svc.memoryCount(t, "u1"); n != 1 {
		t.Errorf("record count = %d after an aborted delete, want 1", n)
	}

	stats := svc.userStats(t, "u1")
	if stats.MemoryCount != 1 {
		t.Errorf("aggregates moved on an aborted delete: %+v", stats)
	}
}

// Memories owned by someone else are invisible to the caller.
func TestDeleteOtherUsersMemoryNotFound(t *testing.T) {
	svc, _ := newPipelineTestService(t)

	result, err := svc.Upload(context.Background(), "u1", "free", textCandidate("notes.txt", "hello"), nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.Delete(context.Background(), "u2", result.MemoryID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
