package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() domain.EntrySubmitted {
	legs := []domain.JournalEntryLeg{
		{AccountID: "cash", Debit: decimal.RequireFromString("200"), Credit: decimal.Zero},
		{AccountID: "ap", Debit: decimal.Zero, Credit: decimal.RequireFromString("200")},
	}
	return domain.EntrySubmitted{
		Group: domain.JournalEntryGroup{GroupID: "g-1"},
		Legs:  legs,
		Actor: domain.Actor{ID: "clerk"},
	}
}

func TestPublishDeliversInOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe("first", func(ctx context.Context, evt domain.EntrySubmitted) error {
		got = append(got, "first:"+evt.Group.GroupID)
		return nil
	})
	bus.Subscribe("second", func(ctx context.Context, evt domain.EntrySubmitted) error {
		got = append(got, "second:"+evt.Group.GroupID)
		return nil
	})

	require.NoError(t, bus.PublishEntrySubmitted(context.Background(), sampleEvent()))
	assert.Equal(t, []string{"first:g-1", "second:g-1"}, got)
}

func TestPublishIsolatesFailingHandlers(t *testing.T) {
	bus := NewBus()
	boom := errors.New("smtp down")
	delivered := false
	bus.Subscribe("mailer", func(ctx context.Context, evt domain.EntrySubmitted) error { return boom })
	bus.Subscribe("panicky", func(ctx context.Context, evt domain.EntrySubmitted) error { panic("nil map") })
	bus.Subscribe("audit", func(ctx context.Context, evt domain.EntrySubmitted) error {
		delivered = true
		return nil
	})

	err := bus.PublishEntrySubmitted(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "panicky")
	assert.True(t, delivered)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	assert.NoError(t, NewBus().PublishEntrySubmitted(context.Background(), sampleEvent()))
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	handler := LogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, handler(context.Background(), sampleEvent()))
	assert.Contains(t, buf.String(), "group_id=g-1")
	assert.Contains(t, buf.String(), "amount=200.00")
}
