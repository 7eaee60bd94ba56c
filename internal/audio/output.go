package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Output renders a buffer. Render blocks until playback finishes or ctx is cancelled.
type Output interface {
	Render(ctx context.Context, buf *Buffer) error
}

// WAVFileOutput writes each buffer to a WAV file and then holds for the
// buffer's duration, standing in for a sound device on headless hosts.
type WAVFileOutput struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// NewWAVFileOutput creates an output writing into dir
func NewWAVFileOutput(dir string, logger *zap.Logger) *WAVFileOutput {
	return &WAVFileOutput{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// Render writes the buffer and waits for its duration
func (o *WAVFileOutput) Render(ctx context.Context, buf *Buffer) error {
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}

	path := filepath.Join(o.dir, fmt.Sprintf("summary-%d.wav", o.now().UnixNano()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	if err := WriteWAV(f, buf); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close audio file: %w", err)
	}

	o.logger.Info("Audio summary written",
		zap.String("path", path),
		zap.Duration("duration", buf.Duration()))

	timer := time.NewTimer(buf.Duration())
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
