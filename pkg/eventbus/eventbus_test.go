package eventbus

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type orderEvent struct {
	POID int64
}

type otherEvent struct{}

func bufferedLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(level)
	return log, buf
}

func TestPublish_DeliversToMatchingHandlers(t *testing.T) {
	bus := NewEventPublisher(nil)
	var got []int64
	bus.Subscribe(func(ctx context.Context, e *orderEvent) { got = append(got, e.POID) })
	bus.Subscribe(func(ctx context.Context, e *otherEvent) { t.Error("should not be called") })

	bus.Publish(context.Background(), &orderEvent{POID: 100})

	require.Equal(t, []int64{100}, got)
}

func TestPublish_WarnsWithoutSubscribers(t *testing.T) {
	log, buf := bufferedLogger(logrus.WarnLevel)
	bus := NewEventPublisher(log)
	bus.Subscribe(func(e *orderEvent) {})

	bus.Publish(&otherEvent{})

	require.Contains(t, buf.String(), "no matching subscribers")
}

func TestPublish_RecoversFromPanics(t *testing.T) {
	log, buf := bufferedLogger(logrus.WarnLevel)
	bus := NewEventPublisher(log)
	called := false
	bus.Subscribe(func(e *orderEvent) { panic("boom") })
	bus.Subscribe(func(e *orderEvent) { called = true })

	require.NotPanics(t, func() { bus.Publish(&orderEvent{POID: 1}) })
	require.True(t, called)
	require.Contains(t, buf.String(), "panicked")
	require.NotContains(t, buf.String(), "no matching subscribers")
}

func TestMatchSignature(t *testing.T) {
	require.True(t, MatchSignature(func(e *orderEvent) {}, []any{&orderEvent{}}))
	require.False(t, MatchSignature(func(e *orderEvent) {}, []any{&otherEvent{}}))
	require.False(t, MatchSignature(func(e *orderEvent) {}, []any{}))
	require.True(t, MatchSignature(func(e *orderEvent) {}, []any{nil}))
	require.True(t, MatchSignature(func(ctx context.Context) {}, []any{context.Background()}))
	require.False(t, MatchSignature("not a func", nil))
}

func TestPublishE(t *testing.T) {
	t.Run("no subscribers", func(t *testing.T) {
		err := NewEventPublisher(nil).PublishE(&orderEvent{})
		require.ErrorIs(t, err, ErrNoSubscribers)
	})

	t.Run("joins handler errors", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		err1, err2 := errors.New("err1"), errors.New("err2")
		bus.Subscribe(func(e *orderEvent) error { return err1 })
		bus.Subscribe(func(e *orderEvent) error { return err2 })

		err := bus.PublishE(&orderEvent{})
		require.ErrorIs(t, err, err1)
		require.ErrorIs(t, err, err2)
	})

	t.Run("invalid return", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		bus.Subscribe(func(e *orderEvent) int { return 1 })
		require.ErrorIs(t, bus.PublishE(&orderEvent{}), ErrInvalidHandlerReturn)
	})
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventPublisher(nil)
	h := func(e *orderEvent) {}
	bus.Subscribe(h)
	require.Equal(t, 1, bus.SubscribersCount())
	bus.Unsubscribe(h)
	require.Equal(t, 0, bus.SubscribersCount())
}
