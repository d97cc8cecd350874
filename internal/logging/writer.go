package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-logfmt/logfmt"
)

type slogWriter struct {
	svc Service
}

// Write decodes the logfmt records of a slog.TextHandler, e.g.
// time=2024-05-09T12:34:56.789-05:00 level=INFO msg="Chip removed" index=2
func (sw *slogWriter) Write(p []byte) (int, error) {
	d := logfmt.NewDecoder(bytes.NewReader(p))
	for d.ScanRecord() {
		log := Log{Attributes: make(map[string]string)}

		for d.ScanKeyval() {
			key := string(d.Key())
			value := string(d.Value())

			switch key {
			case "time":
				parsed, err := time.Parse(time.RFC3339Nano, value)
				if err != nil {
					parsed = time.Now()
				}
				log.Timestamp = parsed
			case "level":
				log.Level = strings.ToLower(value)
			case "msg", "message":
				log.Message = value
			default:
				log.Attributes[key] = value
			}
		}
		if d.Err() != nil {
			return len(p), fmt.Errorf("logfmt.ScanRecord: %w", d.Err())
		}

		svc := sw.svc
		if svc == nil {
			globalMu.RLock()
			if globalLoggingService != nil {
				svc = globalLoggingService
			}
			globalMu.RUnlock()
		}
		if svc == nil {
			continue
		}
		if err := svc.Create(context.Background(), log); err != nil {
			// Avoid slog here, it would loop back into this writer.
			fmt.Fprintf(os.Stderr, "ERROR [logging.slogWriter]: failed to keep log: %v\n", err)
		}
	}
	if d.Err() != nil {
		return len(p), fmt.Errorf("logfmt.ScanRecord final: %w", d.Err())
	}
	return len(p), nil
}

// NewSlogWriter feeds the global logging service.
func NewSlogWriter() io.Writer {
	return &slogWriter{}
}

// NewServiceWriter feeds svc.
func NewServiceWriter(svc Service) io.Writer {
	return &slogWriter{svc: svc}
}
