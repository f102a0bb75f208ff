package logging

import (
	"io"
	"sync"

	"go.uber.org/multierr"
)

// fanOutWriter copies every log line to all targets. A line counts as
// written if at least one target took it, so a full disk does not silence
// stdout.
type fanOutWriter struct {
	mu      sync.Mutex
	targets []io.Writer
}

func newFanOutWriter(targets ...io.Writer) *fanOutWriter {
	return &fanOutWriter{targets: targets}
}

func (w *fanOutWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var (
		errs    error
		written bool
	)
	for _, target := range w.targets {
		if _, err := target.Write(p); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		written = true
	}
	if !written {
		return 0, errs
	}
	return len(p), nil
}
