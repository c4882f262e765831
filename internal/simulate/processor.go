// Package simulate models the slow external steps of the storefront (sign-in,
// card payment, bank transfer, plan change) as a fixed suspension followed by
// a commit. Only the delay is simulated; the commit itself is real and may
// fail.
package simulate

import (
	"errors"
	"sync"
	"time"
)

// Action names a simulated step. Each action has its own latency.
type Action string

const (
	ActionLogin          Action = "login"
	ActionGalleryPayment Action = "gallery_payment"
	ActionItemPayment    Action = "item_payment"
	ActionPayout         Action = "payout"
	ActionStorageUpgrade Action = "storage_upgrade"
)

// ErrInFlight is returned when the same key is already being processed
var ErrInFlight = errors.New("operation already in progress")

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	// StatusRejected means the operation never started
	StatusRejected Status = "rejected"
)

// Result is the tagged outcome of a simulated operation
type Result[T any] struct {
	Status  Status
	Value   T
	Err     error
	Elapsed time.Duration
}

func (r Result[T]) OK() bool {
	return r.Status == StatusSucceeded
}

// Processor runs operations behind their action's latency and keeps one
// in-flight flag per key, so a second submission of the same key during the
// delay is rejected instead of queued.
type Processor struct {
	mu        sync.Mutex
	latencies map[Action]time.Duration
	inFlight  map[string]struct{}
	sleep     func(time.Duration)
}

func NewProcessor(latencies map[Action]time.Duration) *Processor {
	l := make(map[Action]time.Duration, len(latencies))
	for a, d := range latencies {
		l[a] = d
	}
	return &Processor{
		latencies: l,
		inFlight:  make(map[string]struct{}),
		sleep:     time.Sleep,
	}
}

// Immediate returns a processor with no latency, for tests
func Immediate() *Processor {
	return NewProcessor(nil)
}

func (p *Processor) Latency(a Action) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latencies[a]
}

// Busy reports whether key currently has an operation in flight
func (p *Processor) Busy(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.inFlight[key]
	return ok
}

func (p *Processor) acquire(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.inFlight[key]; ok {
		return false
	}
	p.inFlight[key] = struct{}{}
	return true
}

func (p *Processor) release(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, key)
}

// Run waits out the action's latency and then calls op. Once started the wait
// cannot be cancelled. A key already in flight yields StatusRejected with
// ErrInFlight and op is not called.
func Run[T any](p *Processor, key string, action Action, op func() (T, error)) Result[T] {
	if !p.acquire(key) {
		return Result[T]{Status: StatusRejected, Err: ErrInFlight}
	}
	defer p.release(key)

	start := time.Now()
	if d := p.Latency(action); d > 0 {
		p.sleep(d)
	}

	value, err := op()
	res := Result[T]{Value: value, Err: err, Elapsed: time.Since(start), Status: StatusSucceeded}
	if err != nil {
		res.Status = StatusFailed
	}
	return res
}

// Key joins an owner (usually a session token) and parts into an in-flight key
func Key(owner string, parts ...string) string {
	k := owner
	for _, part := range parts {
		k += "|" + part
	}
	return k
}
