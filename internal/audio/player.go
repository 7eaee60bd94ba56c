package audio

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrUnavailable is returned by Toggle when no audio could be produced
var ErrUnavailable = errors.New("audio summary unavailable")

// Handle controls a single playback
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Stop ends the playback and waits until the output has released it
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed when playback ends for any reason
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err reports why playback ended. Valid after Done is closed.
func (h *Handle) Err() error {
	<-h.done
	return h.err
}

// Player allows one playback at a time
type Player struct {
	output  Output
	logger  *zap.Logger
	mu      sync.Mutex
	current *Handle
}

// NewPlayer creates a player bound to output
func NewPlayer(output Output, logger *zap.Logger) *Player {
	return &Player{
		output: output,
		logger: logger,
	}
}

// Play decodes the base64 PCM and starts playing it, stopping any playback in progress first
func (p *Player) Play(ctx context.Context, encoded string) (*Handle, error) {
	buf, err := Decode(encoded)
	if err != nil {
		p.logger.Error("Audio playback error", zap.Error(err))
		return nil, err
	}
	return p.PlayBuffer(ctx, buf), nil
}

// PlayBuffer starts playing an already decoded buffer
func (p *Player) PlayBuffer(ctx context.Context, buf *Buffer) *Handle {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Stop()
		p.current = nil
	}

	playCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	p.current = h

	go func() {
		defer close(h.done)
		defer cancel()
		err := p.output.Render(playCtx, buf)
		if err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Error("Audio playback error", zap.Error(err))
			h.err = err
		}
		p.release(h)
	}()

	return h
}

// release clears the current handle if it is still h
func (p *Player) release(h *Handle) {
	if !p.mu.TryLock() {
		// Stop or PlayBuffer holds the lock and will reset current itself
		return
	}
	defer p.mu.Unlock()
	if p.current == h {
		p.current = nil
	}
}

// Stop ends the current playback, if any
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Stop()
		p.current = nil
	}
}

// Playing reports whether a playback is in progress
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return false
	}
	select {
	case <-p.current.done:
		p.current = nil
		return false
	default:
		return true
	}
}

// Toggle stops the current playback, or fetches audio and plays it when idle.
// It reports whether audio is playing afterwards.
func (p *Player) Toggle(ctx context.Context, fetch func(context.Context) (string, bool)) (bool, error) {
	if p.Playing() {
		p.Stop()
		return false, nil
	}

	encoded, ok := fetch(ctx)
	if !ok {
		return false, ErrUnavailable
	}
	if _, err := p.Play(context.WithoutCancel(ctx), encoded); err != nil {
		return false, err
	}
	return true, nil
}
