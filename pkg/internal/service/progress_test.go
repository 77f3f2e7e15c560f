package service

import (
	"bytes"
	"io"
	"testing"
)

func TestProgressReaderMonotonic(t *testing.T) {
	payload := make([]byte, 1000)

	var fractions []float64

	r := newProgressReader(bytes.NewReader(payload), int64(len(payload)), func(f float64) {
		fractions = append(fractions, f)
	})

	// Small buffer forces many reads and many reports.
	if _, err := io.CopyBuffer(io.Discard, r, make([]byte, 64)); err != nil {
		t.Fatal(err)
	}

	if len(fractions) == 0 {
		t.Fatal("no progress reported")
	}

	prev := -1.0

	for i, f := range fractions {
		if f < 0 || f > 1 {
			t.Fatalf("fraction %d out of range: %v", i, f)
		}

		if f < prev {
			t.Fatalf("fraction decreased: %v after %v", f, prev)
		}

		prev = f
	}

	if final := fractions[len(fractions)-1]; final != 1.0 {
		t.Errorf("final fraction = %v, want 1.0", final)
	}
}

func TestProgressReaderUnknownTotal(t *testing.T) {
	var fractions []float64

	r := newProgressReader(bytes.NewReader(make([]byte, 100)), -1, func(f float64) {
		fractions = append(fractions, f)
	})

	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatal(err)
	}

	// With no total, only completion is reportable.
	if len(fractions) == 0 || fractions[len(fractions)-1] != 1.0 {
		t.Errorf("fractions = %v, want a final 1.0", fractions)
	}

	for _, f := range fractions[:len(fractions)-1] {
		if f != 1.0 {
			t.Errorf("intermediate fraction %v reported without a total", f)
		}
	}
}

func TestProgressReaderNilCallback(t *testing.T) {
	r := newProgressReader(bytes.NewReader([]byte("abc")), 3, nil)

	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatal(err)
	}
}

// A source that claims fewer bytes than it serves must still cap at 1.0.
func TestProgressReaderOverdeliveringSource(t *testing.T) {
	var fractions []float64

	r := newProgressReader(bytes.NewReader(make([]byte, 200)), 100, func(f float64) {
		fractions = append(fractions, f)
	})

	if _, err := io.CopyBuffer(io.Discard, r, make([]byte, 32)); err != nil {
		t.Fatal(err)
	}

	for _, f := range fractions {
		if f > 1.0 {
			t.Fatalf("fraction %v exceeds 1.0", f)
		}
	}
}
