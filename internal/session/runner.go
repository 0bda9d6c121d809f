package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ironsheep/edge-refine-mcp/internal/contour"
	"github.com/ironsheep/edge-refine-mcp/internal/edge"
	"github.com/ironsheep/edge-refine-mcp/internal/raster"
)

// ErrStale is returned by Ticket.Wait when a newer extraction was requested
// for the same image before this one finished.
var ErrStale = errors.New("session: extraction superseded by a newer request")

// Ticket tracks one requested extraction.
type Ticket struct {
	// Seq is the request's sequence number. Later requests have larger
	// numbers.
	Seq uint64

	done chan struct{}
	res  *edge.Result
	err  error
}

func newTicket(seq uint64) *Ticket {
	return &Ticket{Seq: seq, done: make(chan struct{})}
}

func (t *Ticket) finish(res *edge.Result, err error) {
	t.res, t.err = res, err
	close(t.done)
}

// Done is closed once the ticket has an outcome.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the extraction finishes or ctx ends. A superseded
// request returns ErrStale; its result never reaches the store.
func (t *Ticket) Wait(ctx context.Context) (*edge.Result, error) {
	select {
	case <-t.done:
		return t.res, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stale reports whether the ticket finished as superseded.
func (t *Ticket) Stale() bool {
	select {
	case <-t.done:
		return errors.Is(t.err, ErrStale)
	default:
		return false
	}
}

type request struct {
	ticket *Ticket
	buf    *raster.PixelBuffer
	params edge.Params
}

// imageRuns is the runner state of one image.
type imageRuns struct {
	latest  uint64
	running bool
	pending *request
}

// Runner executes extractions with at most one in flight per image.
//
// Requests made while a run is in flight coalesce: only the newest waits,
// older waiting requests finish as stale at once. A finished run is
// committed to the store only if it is still the newest request for its
// image. A failed newest run clears the stored detection.
type Runner struct {
	engine edge.Engine
	store  *contour.Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	seq    uint64
	images map[string]*imageRuns
}

// NewRunner creates a runner that commits results to store.
func NewRunner(engine edge.Engine, store *contour.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		engine: engine,
		store:  store,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		images: make(map[string]*imageRuns),
	}
}

// Submit requests an extraction of buf for image id and returns at once.
func (r *Runner) Submit(id string, buf *raster.PixelBuffer, p edge.Params) *Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	req := &request{ticket: newTicket(r.seq), buf: buf, params: p}

	st, ok := r.images[id]
	if !ok {
		st = &imageRuns{}
		r.images[id] = st
	}
	st.latest = req.ticket.Seq

	if st.running {
		if st.pending != nil {
			st.pending.ticket.finish(nil, ErrStale)
		}
		st.pending = req
		return req.ticket
	}

	st.running = true
	r.wg.Add(1)
	go r.run(id, st, req)
	return req.ticket
}

func (r *Runner) run(id string, st *imageRuns, req *request) {
	defer r.wg.Done()
	for req != nil {
		res, err := r.engine.Extract(r.ctx, req.buf, req.params)
		r.commit(id, st, req.ticket, res, err)

		r.mu.Lock()
		req = st.pending
		st.pending = nil
		if req == nil {
			st.running = false
		}
		r.mu.Unlock()
	}
}

func (r *Runner) commit(id string, st *imageRuns, t *Ticket, res *edge.Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.images[id] != st || st.latest != t.Seq {
		r.logger.Debug("discarding stale extraction", "image", id, "seq", t.Seq)
		t.finish(nil, ErrStale)
		return
	}

	if err != nil {
		r.store.ClearDetection(id, t.Seq)
		r.logger.Warn("extraction failed", "image", id, "seq", t.Seq, "engine", r.engine.Name(), "error", err)
		t.finish(nil, err)
		return
	}

	if !r.store.PutDetection(id, t.Seq, res) {
		t.finish(nil, ErrStale)
		return
	}
	r.logger.Debug("extraction committed", "image", id, "seq", t.Seq, "contours", len(res.Contours))
	t.finish(res, nil)
}

// Latest returns the newest sequence number requested for id, or zero.
func (r *Runner) Latest(id string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.images[id]; ok {
		return st.latest
	}
	return 0
}

// Forget drops the state of id. Runs still in flight for it finish as
// stale.
func (r *Runner) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.images[id]; ok && st.pending != nil {
		st.pending.ticket.finish(nil, ErrStale)
		st.pending = nil
	}
	delete(r.images, id)
}

// Close cancels running extractions and waits for the workers to exit.
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}
