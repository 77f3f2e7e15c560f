package service

import (
	"context"
	"strings"
	"testing"
)

// Public memories hand out their durable URL without a presigned link.
func TestGetDownloadURLPublicMemory(t *testing.T) {
	svc, _ := newPipelineTestService(t)

	candidate := textCandidate("notes.txt", "hello")
	candidate.Public = true

	result, err := svc.Upload(context.Background(), "u1", "free", candidate, nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	resp, err := svc.GetDownloadURL(context.Background(), "u1", result.MemoryID)
	if err != nil {
		t.Fatalf("get download url: %v", err)
	}

	if !resp.Public {
		t.Error("response not marked public")
	}

	if resp.URL != result.DownloadURL {
		t.Errorf("url = %q, want the durable %q", resp.URL, result.DownloadURL)
	}

	if resp.ExpiresIn != 0 {
		t.Errorf("durable link carries an expiry of %d", resp.ExpiresIn)
	}
}

func TestListMemoriesCarriesDescriptiveFields(t *testing.T) {
	svc, _ := newPipelineTestService(t)

	candidate := textCandidate("notes.txt", "hello")
	candidate.Category = "travel"
	candidate.Tags = []string{"beach"}

	if _, err := svc.Upload(context.Background(), "u1", "free", candidate, nil); err != nil {
		t.Fatalf("upload: %v", err)
	}

	page, err := svc.ListMemories(context.Background(), "u1", "", 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(page.Memories) != 1 {
		t.Fatalf("listed %d memories, want 1", len(page.Memories))
	}

	info := page.Memories[0]
	if info.Category != "travel" {
		t.Errorf("category = %q, want travel", info.Category)
	}

	if len(info.Tags) != 1 || info.Tags[0] != "beach" {
		t.Errorf("tags = %v, want [beach]", info.Tags)
	}

	if !strings.HasPrefix(info.DownloadURL, "https://") {
		t.Errorf("download url = %q", info.DownloadURL)
	}
}
