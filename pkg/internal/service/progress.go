package service

import (
	"io"

	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
)

// progressReader wraps the payload reader and reports transfer progress as
// a fraction in [0, 1]. Reported values never decrease; draining the source
// always reports 1.0.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  float64
	done  bool
	fn    types.ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn types.ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report(err == io.EOF)
	} else if err == io.EOF {
		p.report(true)
	}

	return n, err
}

func (p *progressReader) report(final bool) {
	if p.fn == nil || p.done {
		return
	}

	var frac float64

	switch {
	case final:
		frac = 1.0
		p.done = true
	case p.total <= 0:
		// Unknown total: nothing meaningful to report until EOF.
		return
	default:
		frac = float64(p.read) / float64(p.total)
		if frac > 1.0 {
			frac = 1.0
		}
	}

	// Clamp to monotonic in case the source over-reports.
	if frac < p.last {
		frac = p.last
	}

	p.last = frac
	p.fn(frac)
}
