package service

import (
	"strings"
	"testing"
)

func TestBuildObjectKey(t *testing.T) {
	got := buildObjectKey("u-42", "01J5KXYZ.jpg")
	want := "users/u-42/memories/01J5KXYZ.jpg"

	if got != want {
		t.Fatalf("buildObjectKey = %q, want %q", got, want)
	}
}

func TestGenerateFileName(t *testing.T) {
	id, name := generateFileName("Vacation Photo.JPG")

	if len(id) != 26 {
		t.Fatalf("memory id %q is not a ULID", id)
	}

	if name != id+".jpg" {
		t.Errorf("generated name = %q, want %q", name, id+".jpg")
	}

	if strings.Contains(name, "Vacation") {
		t.Errorf("generated name %q leaks the original name", name)
	}

	// No extension: the generated name is the bare ID.
	id2, name2 := generateFileName("README")
	if name2 != id2 {
		t.Errorf("generated name = %q, want %q", name2, id2)
	}

	if id == id2 {
		t.Error("consecutive IDs collided")
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want string
	}{
		{"photo.png", ".jpg", "photo.jpg"},
		{"archive.tar.gz", ".jpg", "archive.tar.jpg"},
		{"noext", ".jpg", "noext.jpg"},
		{"trailing.", ".jpg", "trailing.jpg"},
	}

	for _, tt := range tests {
		if got := replaceExt(tt.name, tt.ext); got != tt.want {
			t.Errorf("replaceExt(%q, %q) = %q, want %q", tt.name, tt.ext, got, tt.want)
		}
	}
}
