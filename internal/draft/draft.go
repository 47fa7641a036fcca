package draft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sakif/genfolio/internal/model"
)

// DefaultDebounce is how long Update waits for further changes before
// saving.
const DefaultDebounce = 400 * time.Millisecond

// saveTimeout bounds a background save triggered by the debounce timer.
const saveTimeout = 5 * time.Second

// Draft is the mutable in-progress record owned by one form flow. It is
// passed by reference to whoever edits the form; there is no global draft.
//
// Changes made through Update are saved to the Store after DefaultDebounce
// of quiet. Flush saves immediately, Reset wipes both the record and the
// stored copy, and Submitted drops the stored copy once the record has been
// persisted for good.
type Draft struct {
	store  Store
	key    string
	delay  time.Duration
	logger *slog.Logger

	mu     sync.Mutex
	record *model.ProfileRecord
	dirty  bool
	timer  *time.Timer

	// saveMu serializes store writes so a late debounced save can never
	// land after a Clear.
	saveMu sync.Mutex
}

// Option configures a Draft.
type Option func(*Draft)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(dr *Draft) { dr.delay = d }
}

// WithLogger sets the logger used for background save failures.
func WithLogger(l *slog.Logger) Option {
	return func(dr *Draft) { dr.logger = l }
}

// Open loads the draft stored under key, or starts an empty one.
func Open(ctx context.Context, store Store, key string, opts ...Option) (*Draft, error) {
	d := &Draft{
		store:  store,
		key:    key,
		delay:  DefaultDebounce,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	p, err := store.Load(ctx, key)
	switch {
	case errors.Is(err, ErrNoDraft):
		p = &model.ProfileRecord{}
	case err != nil:
		return nil, fmt.Errorf("draft: opening %s: %w", key, err)
	}
	d.record = p
	return d, nil
}

// Record returns a copy of the current record.
func (d *Draft) Record() *model.ProfileRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record.Clone()
}

// Update applies fn to the record and schedules a debounced save. Calls
// that arrive within the debounce window collapse into one save.
func (d *Draft) Update(fn func(p *model.ProfileRecord)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fn(d.record)
	d.dirty = true

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := d.save(ctx); err != nil {
			d.logger.Error("draft autosave failed",
				slog.String("key", d.key),
				slog.String("error", err.Error()),
			)
		}
	})
}

// Dirty reports whether there are changes not yet saved.
func (d *Draft) Dirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirty
}

// Flush saves pending changes now.
func (d *Draft) Flush(ctx context.Context) error {
	d.stopTimer()
	return d.save(ctx)
}

// Reset empties the record and clears the stored draft.
func (d *Draft) Reset(ctx context.Context) error {
	d.mu.Lock()
	d.stopTimerLocked()
	d.record = &model.ProfileRecord{}
	d.dirty = false
	d.mu.Unlock()

	return d.clear(ctx)
}

// Submitted clears the stored draft after a successful submission. The
// in-memory record is left as it was submitted.
func (d *Draft) Submitted(ctx context.Context) error {
	d.mu.Lock()
	d.stopTimerLocked()
	d.dirty = false
	d.mu.Unlock()

	return d.clear(ctx)
}

func (d *Draft) save(ctx context.Context) error {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	d.mu.Lock()
	if !d.dirty {
		d.mu.Unlock()
		return nil
	}
	snapshot := d.record.Clone()
	d.dirty = false
	d.mu.Unlock()

	if err := d.store.Save(ctx, d.key, snapshot); err != nil {
		d.mu.Lock()
		d.dirty = true
		d.mu.Unlock()
		return err
	}
	return nil
}

func (d *Draft) clear(ctx context.Context) error {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()
	return d.store.Clear(ctx, d.key)
}

func (d *Draft) stopTimer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopTimerLocked()
}

func (d *Draft) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
