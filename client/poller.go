package client

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval matches the 5-second refresh the lobby screens
// have always used.
const DefaultPollInterval = 5 * time.Second

// PlayerLister is the read-only slice of the API the poller depends on.
type PlayerLister interface {
	ListPlayers(ctx context.Context, roomID string) ([]Player, error)
}

// Snapshot is the poller's local view of the player directory.
type Snapshot struct {
	Players   []Player
	Stale     bool // last tick failed; Players is the previous good read
	UpdatedAt time.Time
}

// Reconciler folds a freshly fetched player list into the previous
// view. The interface exists so a diff-based or push-fed policy can
// slot in later without touching the data model.
type Reconciler interface {
	Reconcile(prev Snapshot, players []Player) Snapshot
}

// SnapshotReconciler replaces the view wholesale: the server's list is
// the truth, and a player absent from it is gone from the view (though
// never from the authoritative store).
type SnapshotReconciler struct{}

func (SnapshotReconciler) Reconcile(_ Snapshot, players []Player) Snapshot {
	return Snapshot{Players: players, UpdatedAt: time.Now()}
}

// PollerOptions configures a Poller. Zero values mean the defaults.
type PollerOptions struct {
	Interval   time.Duration
	Timeout    time.Duration
	Reconciler Reconciler

	// OnUpdate fires after every applied tick, including the tick
	// that only flipped the view stale.
	OnUpdate func(Snapshot)

	// OnError surfaces definitive failures (room gone, forbidden).
	// Transient failures are swallowed and retried next tick.
	OnError func(error)
}

// Poller drives the fixed-interval pull loop for one room. Ticks that
// fire while a request is still outstanding are skipped, never queued,
// so one slow room can't pile up concurrent reads. After Stop, responses
// still in flight are discarded.
type Poller struct {
	api    PlayerLister
	roomID string
	opts   PollerOptions

	mu   sync.Mutex
	snap Snapshot

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(api PlayerLister, roomID string, opts PollerOptions) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = requestTimeout
	}
	if opts.Reconciler == nil {
		opts.Reconciler = SnapshotReconciler{}
	}

	return &Poller{
		api:    api,
		roomID: roomID,
		opts:   opts,
	}
}

// Start launches the loop, beginning with an immediate fetch. It may be
// called once per Poller.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx)
}

// Stop cancels the loop and waits for it to wind down. The in-flight
// request, if any, is abandoned and its response never applied.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}

	p.cancel()
	<-p.done
}

// View returns the current local snapshot.
func (p *Poller) View() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snap
}

type pollResult struct {
	players []Player
	err     error
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	results := make(chan pollResult, 1)
	inFlight := true
	p.fetch(ctx, results)

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-results:
			inFlight = false
			if ctx.Err() != nil {
				return
			}
			p.apply(res)

		case <-ticker.C:
			if inFlight {
				continue
			}
			inFlight = true
			p.fetch(ctx, results)
		}
	}
}

func (p *Poller) fetch(ctx context.Context, results chan<- pollResult) {
	go func() {
		fctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()

		players, err := p.api.ListPlayers(fctx, p.roomID)

		select {
		case results <- pollResult{players: players, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (p *Poller) apply(res pollResult) {
	p.mu.Lock()

	switch {
	case res.err == nil:
		p.snap = p.opts.Reconciler.Reconcile(p.snap, res.players)

	case IsTransient(res.err):
		// Keep the last good view, just flag it stale. The next
		// scheduled tick is the retry; no extra backoff.
		p.snap.Stale = true

	default:
		// Definitive answer (room closed, gone). Surface it without
		// stopping the loop; the view goes stale meanwhile.
		p.snap.Stale = true
	}

	snap := p.snap
	p.mu.Unlock()

	if res.err != nil && !IsTransient(res.err) && p.opts.OnError != nil {
		p.opts.OnError(res.err)
	}
	if p.opts.OnUpdate != nil {
		p.opts.OnUpdate(snap)
	}
}
