package diag

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// RecorderConfig controls buffering.
type RecorderConfig struct {
	BufferSize   int
	DropIfFull   bool
	WriteTimeout time.Duration
}

type artifact struct {
	name    string
	content []byte
}

// Recorder is an asynchronous [Sink] over a [Writer].
type Recorder struct {
	cfg       RecorderConfig
	writer    Writer
	logger    *zap.Logger
	now       func() time.Time
	ch        chan artifact
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	failed    atomic.Uint64
	written   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewRecorder starts the background writer goroutine. Call Close to drain it.
func NewRecorder(cfg RecorderConfig, writer Writer, logger *zap.Logger) *Recorder {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Recorder{
		cfg:    cfg,
		writer: writer,
		logger: logger,
		now:    time.Now,
		ch:     make(chan artifact, cfg.BufferSize),
		done:   make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

func (r *Recorder) run() {
	defer r.wg.Done()

	for {
		select {
		case a := <-r.ch:
			r.write(a)
		case <-r.done:
			for {
				select {
				case a := <-r.ch:
					r.write(a)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(a artifact) {
	if r.writer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
	defer cancel()
	if err := r.writer.Write(ctx, a.name, a.content); err != nil {
		r.failed.Add(1)
		r.logger.Warn("diagnostic write failed", zap.String("artifact", a.name), zap.Error(err))
		return
	}
	r.written.Add(1)
	r.logger.Debug("diagnostic recorded", zap.String("artifact", a.name), zap.Int("bytes", len(a.content)))
}

// Record queues content and returns its artifact id. When the buffer is full and
// DropIfFull is set the artifact is dropped and "" is returned.
func (r *Recorder) Record(ctx context.Context, step string, content string) string {
	if r == nil || r.closed.Load() {
		return ""
	}
	if ctx == nil {
		ctx = context.Background()
	}

	a := artifact{name: ArtifactName(step, r.now()), content: []byte(content)}

	if r.cfg.DropIfFull {
		select {
		case r.ch <- a:
			return a.name
		case <-r.done:
		default:
			r.dropped.Add(1)
		}
		return ""
	}

	select {
	case r.ch <- a:
		return a.name
	case <-ctx.Done():
	case <-r.done:
	}
	return ""
}

// Close stops accepting artifacts and waits for queued ones to be written.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		close(r.done)
		r.wg.Wait()
	})
}

func (r *Recorder) Dropped() uint64 {
	if r == nil {
		return 0
	}
	return r.dropped.Load()
}

func (r *Recorder) Failed() uint64 {
	if r == nil {
		return 0
	}
	return r.failed.Load()
}

func (r *Recorder) Written() uint64 {
	if r == nil {
		return 0
	}
	return r.written.Load()
}
