package eventlog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lmis-mock-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSink struct {
	events []models.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, e models.Event) error {
	s.events = append(s.events, e)
	return s.err
}

func TestAddNewestFirstAndBounded(t *testing.T) {
	l := New(3, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		l.Add(ctx, "openlmis", fmt.Sprintf("t%d", i), nil)
	}

	events, total := l.List("", "", DefaultLimit)
	assert.Equal(t, 3, total)
	require.Len(t, events, 3)
	assert.Equal(t, "t4", events[0].Type)
	assert.Equal(t, "t2", events[2].Type)
	assert.NotNil(t, events[0].Payload)
}

func TestListFiltersAndLimit(t *testing.T) {
	l := New(0, nil)
	ctx := context.Background()
	l.Add(ctx, "openlmis", "requisition.statusChange", map[string]any{"n": 1})
	l.Add(ctx, "opensrp", "patient.created", nil)
	l.Add(ctx, "openlmis", "stock.updated", nil)
	l.Add(ctx, "openlmis", "stock.updated", nil)

	events, total := l.List("openlmis", "", 2)
	assert.Equal(t, 3, total)
	assert.Len(t, events, 2)

	events, total = l.List("", "stock.updated", DefaultLimit)
	assert.Equal(t, 2, total)
	assert.Len(t, events, 2)

	events, total = l.List("opensrp", "stock.updated", DefaultLimit)
	assert.Equal(t, 0, total)
	assert.Empty(t, events)

	l.Clear()
	assert.Equal(t, 0, l.Len())
}

func TestSinksReceiveEventsEvenWhenOneFails(t *testing.T) {
	failing := &recordingSink{err: errors.New("unreachable")}
	ok := &recordingSink{}
	l := New(10, zap.NewNop(), failing, ok)

	e := l.Add(context.Background(), "opensrp", "encounter.created", map[string]any{"id": "enc-1"})

	require.Len(t, ok.events, 1)
	assert.Equal(t, e.ID, ok.events[0].ID)
	assert.Len(t, failing.events, 1)
	assert.Equal(t, 1, l.Len())
}
