package stream

import (
	"context"
	"strings"
	"time"
)

// Capability is the single-shot answering call a Responder wraps. It is
// invoked exactly once per stream and must honor ctx cancellation.
type Capability func(ctx context.Context, prompt string) (string, error)

// statusSteps are the coarse progress phases announced before the model is
// invoked. They are synthetic pacing for the caller, not real agent phases.
var statusSteps = []string{"Analyzing", "Searching knowledge", "Generating response"}

// Responder turns one answering call into an ordered event sequence:
// status events, then one token event per whitespace fragment of the answer,
// then a single done event. A capability failure replaces the remainder with
// a single error event. Delays between events are pacing only; the contract
// is ordering and typing, not timing.
type Responder struct {
	statusDelay time.Duration
	tokenDelay  time.Duration
}

func NewResponder(statusDelay, tokenDelay time.Duration) *Responder {
	return &Responder{
		statusDelay: statusDelay,
		tokenDelay:  tokenDelay,
	}
}

// Stream runs the protocol on its own goroutine and returns the event
// channel. The channel is closed after the terminal event, or as soon as ctx
// is canceled; cancellation also reaches the in-flight capability call
// through ctx, so a disconnected consumer never leaks the model request.
func (r *Responder) Stream(ctx context.Context, prompt string, answer Capability) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)

		start := time.Now()
		elapsed := func() float64 {
			return time.Since(start).Seconds()
		}
		emit := func(ev Event) bool {
			// Canceled consumers must not receive further events, even
			// if they are still draining the channel.
			select {
			case <-ctx.Done():
				return false
			default:
			}
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for _, step := range statusSteps {
			if !emit(NewStatusEvent(step, elapsed())) {
				return
			}
			if !r.pause(ctx, r.statusDelay) {
				return
			}
		}

		text, err := answer(ctx, prompt)
		if err != nil {
			emit(NewErrorEvent(err.Error(), 0, elapsed()))
			return
		}

		count := 0
		for _, fragment := range strings.Fields(text) {
			count++
			if !emit(NewTokenEvent(fragment, count, elapsed())) {
				return
			}
			if !r.pause(ctx, r.tokenDelay) {
				return
			}
		}

		emit(NewDoneEvent(count, elapsed()))
	}()

	return out
}

func (r *Responder) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
