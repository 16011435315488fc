// Package ocr provides optical character recognition for label rasters.
//
// The engine binding wraps Tesseract via gosseract and compiles only under
// the "ocr" build tag; without the tag a stub is used and NewEngine returns
// ErrNotEnabled. To enable recognition, install Tesseract and rebuild:
//
//	go build -tags ocr
//
// Engine construction costs seconds, which would dominate latency if paid
// per extraction call. Pool amortizes it: a single engine instance is
// created lazily on first acquisition, shared by reference count across
// concurrent calls, and destroyed after an idle grace period with no
// outstanding leases.
package ocr

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultIdleTimeout is how long a pool keeps an unused engine alive after
// the last lease is released.
const DefaultIdleTimeout = 30 * time.Second

// ErrLeaseReleased is returned when a lease is used after Release.
var ErrLeaseReleased = errors.New("ocr: lease already released")

// Engine is a recognition engine instance.
type Engine interface {
	// Recognize runs OCR on an encoded image (PNG, JPEG, TIFF) and
	// returns the recognized text.
	Recognize(image []byte) (string, error)

	// Close destroys the engine instance.
	Close() error
}

// Factory constructs an engine. Construction may be expensive.
type Factory func() (Engine, error)

// RecognitionError reports that the engine failed on one image region.
// Callers recover from it locally by leaving the affected field empty.
type RecognitionError struct {
	Err error
}

func (e *RecognitionError) Error() string { return fmt.Sprintf("ocr: recognition failed: %v", e.Err) }

func (e *RecognitionError) Unwrap() error { return e.Err }

// Pool owns at most one engine instance at a time and hands out leases on
// it. All refcount and idle-timer bookkeeping is serialized by a single
// mutex; this is not a hot path, it exists purely to amortize engine
// startup cost across bursts of extraction calls.
type Pool struct {
	factory Factory
	idle    time.Duration
	log     zerolog.Logger

	mu     sync.Mutex
	engine Engine
	refs   int
	timer  *time.Timer
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithIdleTimeout overrides the idle grace period before the engine is
// destroyed.
func WithIdleTimeout(d time.Duration) PoolOption {
	return func(p *Pool) { p.idle = d }
}

// WithLogger sets the pool's logger. The default discards everything.
func WithLogger(l zerolog.Logger) PoolOption {
	return func(p *Pool) { p.log = l }
}

// NewPool creates a pool that builds engines with factory. No engine is
// constructed until the first Acquire.
func NewPool(factory Factory, opts ...PoolOption) *Pool {
	p := &Pool{
		factory: factory,
		idle:    DefaultIdleTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire returns a lease on the shared engine, constructing it if absent.
// Every Acquire must be paired with exactly one Release, including on
// error paths.
func (p *Pool) Acquire() (*Lease, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.engine == nil {
		start := time.Now()
		eng, err := p.factory()
		if err != nil {
			return nil, fmt.Errorf("ocr: start engine: %w", err)
		}
		p.engine = eng
		p.log.Debug().Dur("startup", time.Since(start)).Msg("ocr engine started")
	}

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.refs++

	return &Lease{pool: p}, nil
}

// Active reports whether an engine instance currently exists.
func (p *Pool) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine != nil
}

// Shutdown destroys the engine immediately regardless of the idle timer.
// Outstanding leases become unusable. Intended for process teardown.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	return p.closeEngineLocked()
}

func (p *Pool) closeEngineLocked() error {
	if p.engine == nil {
		return nil
	}
	err := p.engine.Close()
	p.engine = nil
	if err != nil {
		p.log.Warn().Err(err).Msg("ocr engine close failed")
	}
	return err
}

// reap fires on the idle timer. A concurrent Acquire may have raced the
// timer, so the refcount is re-checked under the mutex.
func (p *Pool) reap() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refs != 0 {
		return
	}
	p.timer = nil
	if p.engine != nil {
		p.log.Debug().Msg("ocr engine idle, shutting down")
		_ = p.closeEngineLocked()
	}
}

func (p *Pool) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refs--
	if p.refs > 0 {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.idle, p.reap)
}

func (p *Pool) recognize(image []byte) (string, error) {
	p.mu.Lock()
	eng := p.engine
	p.mu.Unlock()
	if eng == nil {
		return "", ErrLeaseReleased
	}
	// The engine serializes its own recognition calls; holding the pool
	// mutex across a seconds-scale OCR call would block Acquire/Release.
	return eng.Recognize(image)
}

// Lease is a counted reference to the shared engine. It is not safe for
// concurrent use by multiple goroutines; acquire one lease per unit of work.
type Lease struct {
	pool     *Pool
	released bool
}

// Recognize runs OCR on an encoded image through the leased engine.
func (l *Lease) Recognize(image []byte) (string, error) {
	if l.released {
		return "", ErrLeaseReleased
	}
	return l.pool.recognize(image)
}

// Release returns the lease to the pool. It is safe to call more than once;
// only the first call decrements the refcount, so a deferred Release paired
// with an explicit one cannot corrupt the count.
func (l *Lease) Release() {
	if l.released {
		return
	}
	l.released = true
	l.pool.release()
}
