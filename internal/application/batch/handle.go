package batch

import (
	"sync/atomic"
	"time"

	"github.com/go-marketing-api/internal/domain"
)

// Progress is a point-in-time snapshot of a run. Processed only ever grows,
// even when observed mid-run.
type Progress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Risky     int `json:"risky"`
	Unknown   int `json:"unknown"`
	Percent   int `json:"percent"`
}

// Handle tracks one in-flight batch run. It is safe for concurrent use:
// the worker records completions while any number of callers poll Progress,
// wait on Done or request cancellation.
type Handle struct {
	BatchID string

	userID string
	emails []string
	total  int

	processed atomic.Int64
	valid     atomic.Int64
	invalid   atomic.Int64
	risky     atomic.Int64
	unknown   atomic.Int64
	cancelled atomic.Bool

	done chan struct{}
}

func newHandle(batchID, userID string, total int, emails []string) *Handle {
	return &Handle{
		BatchID: batchID,
		userID:  userID,
		emails:  emails,
		total:   total,
		done:    make(chan struct{}),
	}
}

// Done is closed when the run reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Cancel requests that no further items be scheduled. Already processed
// items keep their persisted results.
func (h *Handle) Cancel() { h.cancelled.Store(true) }

func (h *Handle) Cancelled() bool { return h.cancelled.Load() }

// Progress returns the current counters.
func (h *Handle) Progress() Progress {
	p := Progress{
		Processed: int(h.processed.Load()),
		Total:     h.total,
		Valid:     int(h.valid.Load()),
		Invalid:   int(h.invalid.Load()),
		Risky:     int(h.risky.Load()),
		Unknown:   int(h.unknown.Load()),
	}
	if p.Total > 0 {
		p.Percent = p.Processed * 100 / p.Total
	}
	return p
}

// record counts one finished item. Processed is bumped first so a
// concurrent Progress read never sees the status counters sum past it.
func (h *Handle) record(status string) {
	h.processed.Add(1)
	switch status {
	case domain.EmailStatusValid:
		h.valid.Add(1)
	case domain.EmailStatusInvalid:
		h.invalid.Add(1)
	case domain.EmailStatusRisky:
		h.risky.Add(1)
	default:
		h.unknown.Add(1)
	}
}

func (h *Handle) finish() {
	close(h.done)
}

// snapshotBatch materializes the current counters as a batch row, used when
// finalizing so the persisted counts are absolute rather than incremental.
func (h *Handle) snapshotBatch() *domain.VerificationBatch {
	p := h.Progress()
	return &domain.VerificationBatch{
		BatchID:   h.BatchID,
		UserID:    h.userID,
		Total:     p.Total,
		Processed: p.Processed,
		Valid:     p.Valid,
		Invalid:   p.Invalid,
		Risky:     p.Risky,
		Unknown:   p.Unknown,
		CreatedAt: time.Time{}, // preserved by the store on finalize
	}
}
