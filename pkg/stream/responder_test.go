package stream

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(ch <-chan Event) []Event {
	var out []Event
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

func TestStreamHappyPath(t *testing.T) {
	r := NewResponder(0, 0)

	events := collect(r.Stream(context.Background(), "what grew?", func(ctx context.Context, prompt string) (string, error) {
		assert.Equal(t, "what grew?", prompt)
		return "Revenue grew 10%.", nil
	}))

	require.Len(t, events, 7)

	wantSteps := []string{"Analyzing", "Searching knowledge", "Generating response"}
	for i, step := range wantSteps {
		assert.Equal(t, EventStatus, events[i].Type)
		assert.Equal(t, step, events[i].Step)
	}

	wantTokens := []string{"Revenue", "grew", "10%."}
	for i, content := range wantTokens {
		ev := events[3+i]
		assert.Equal(t, EventToken, ev.Type)
		assert.Equal(t, content, ev.Content)
		assert.Equal(t, i+1, ev.TokenCount)
	}

	last := events[len(events)-1]
	assert.Equal(t, EventDone, last.Type)
	assert.Equal(t, 3, last.TokenCount)
}

func TestStreamExactlyOneTerminalEvent(t *testing.T) {
	r := NewResponder(0, 0)

	events := collect(r.Stream(context.Background(), "hi", func(ctx context.Context, prompt string) (string, error) {
		return "hello there", nil
	}))

	terminals := 0
	for _, ev := range events {
		if ev.Terminal() {
			terminals++
		}
	}
	assert.Equal(t, 1, terminals)
	assert.True(t, events[len(events)-1].Terminal())
}

func TestStreamCapabilityError(t *testing.T) {
	r := NewResponder(0, 0)

	events := collect(r.Stream(context.Background(), "hi", func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("quota exceeded")
	}))

	require.Len(t, events, 4)
	for _, ev := range events[:3] {
		assert.Equal(t, EventStatus, ev.Type)
	}

	last := events[3]
	assert.Equal(t, EventError, last.Type)
	assert.Equal(t, "quota exceeded", last.Content)
	for _, ev := range events {
		assert.NotEqual(t, EventToken, ev.Type)
		assert.NotEqual(t, EventDone, ev.Type)
	}
}

func TestStreamEmptyAnswer(t *testing.T) {
	r := NewResponder(0, 0)

	events := collect(r.Stream(context.Background(), "hi", func(ctx context.Context, prompt string) (string, error) {
		return "", nil
	}))

	require.Len(t, events, 4)
	last := events[3]
	assert.Equal(t, EventDone, last.Type)
	assert.Equal(t, 0, last.TokenCount)
}

func TestStreamFragmentsReassembleWithSingleSpaces(t *testing.T) {
	r := NewResponder(0, 0)

	events := collect(r.Stream(context.Background(), "hi", func(ctx context.Context, prompt string) (string, error) {
		return "alpha  beta\tgamma\n delta", nil
	}))

	var fragments []string
	for _, ev := range events {
		if ev.Type == EventToken {
			fragments = append(fragments, ev.Content)
			assert.NotContains(t, ev.Content, " ")
		}
	}
	assert.Equal(t, "alpha beta gamma delta", strings.Join(fragments, " "))
}

func TestStreamCancellationStopsEmission(t *testing.T) {
	r := NewResponder(0, 0)
	ctx, cancel := context.WithCancel(context.Background())

	invoked := make(chan struct{})
	ch := r.Stream(ctx, "hi", func(ctx context.Context, prompt string) (string, error) {
		close(invoked)
		<-ctx.Done()
		return "", ctx.Err()
	})

	for i := 0; i < 3; i++ {
		ev, ok := <-ch
		require.True(t, ok)
		assert.Equal(t, EventStatus, ev.Type)
	}

	<-invoked
	cancel()

	// After cancellation the channel must close without a terminal event.
	var extras []Event
	for ev := range ch {
		extras = append(extras, ev)
	}
	assert.Empty(t, extras)
}

func TestStreamElapsedIsMonotonic(t *testing.T) {
	r := NewResponder(0, 0)

	events := collect(r.Stream(context.Background(), "hi", func(ctx context.Context, prompt string) (string, error) {
		return "one two three", nil
	}))

	prev := -1.0
	for _, ev := range events {
		assert.GreaterOrEqual(t, ev.ElapsedSeconds, prev)
		prev = ev.ElapsedSeconds
	}
}
