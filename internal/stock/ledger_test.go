package stock

import (
	"sync"
	"testing"
	"time"

	"lmis-mock-server/internal/apperror"
	"lmis-mock-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testSeed() Seed {
	return Seed{
		StockCards: []models.StockCard{
			{ID: "card-1", FacilityID: "fac-1", ProgramID: "prog-1", OrderableID: "orderable-x", StockOnHand: 100, LineItems: []models.StockLineItem{}},
			{ID: "card-2", FacilityID: "fac-1", ProgramID: "prog-2", OrderableID: "orderable-y", StockOnHand: 50, LineItems: []models.StockLineItem{}},
			{ID: "card-3", FacilityID: "fac-2", ProgramID: "prog-1", OrderableID: "orderable-x", StockOnHand: 7, LineItems: []models.StockLineItem{}},
		},
		ValidSources:      []models.ValidSourceDestination{{ID: "src-1", Name: "Central Warehouse"}},
		ValidDestinations: []models.ValidSourceDestination{{ID: "dst-1", Name: "Ward A"}, {ID: "dst-2", Name: "Ward B"}},
	}
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(testSeed())
	l.SetClock(func() time.Time { return time.Date(2026, 1, 17, 23, 30, 0, 0, time.UTC) })
	return l
}

func TestRecordEventDefaultReason(t *testing.T) {
	l := newTestLedger(t)

	res := l.RecordEvent([]models.StockEventLineItem{{OrderableID: "orderable-x", Quantity: 20}})

	assert.Equal(t, StatusProcessed, res.Status)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, 1, res.LineItems)
	assert.Equal(t, 1, res.Applied)
	assert.Empty(t, res.SkippedOrderableIDs)

	card, err := l.GetCard("card-1")
	require.NoError(t, err)
	assert.Equal(t, 120, card.StockOnHand)
	require.Len(t, card.LineItems, 1)
	movement := card.LineItems[0]
	assert.Equal(t, DefaultReason, movement.Reason)
	assert.Equal(t, 20, movement.Quantity)
	assert.Equal(t, "2026-01-17", movement.OccurredDate)
	assert.Nil(t, movement.Source)
	assert.Nil(t, movement.Destination)
	assert.NotEmpty(t, movement.ID)

	other, err := l.GetCard("card-3")
	require.NoError(t, err)
	assert.Equal(t, 7, other.StockOnHand, "only the first card holding the orderable is updated")
}

func TestRecordEventKeepsSuppliedFields(t *testing.T) {
	l := newTestLedger(t)

	l.RecordEvent([]models.StockEventLineItem{{
		OrderableID:   "orderable-y",
		Quantity:      -5,
		ReasonID:      "reason-issue",
		OccurredDate:  "2026-01-02",
		SourceID:      strPtr("src-1"),
		DestinationID: strPtr("dst-2"),
	}})

	card, err := l.GetCard("card-2")
	require.NoError(t, err)
	assert.Equal(t, 45, card.StockOnHand)
	require.Len(t, card.LineItems, 1)
	m := card.LineItems[0]
	assert.Equal(t, "reason-issue", m.Reason)
	assert.Equal(t, "2026-01-02", m.OccurredDate)
	assert.Equal(t, "src-1", *m.Source)
	assert.Equal(t, "dst-2", *m.Destination)
}

func TestRecordEventQuantityIgnoresReasonCategory(t *testing.T) {
	l := newTestLedger(t)

	l.RecordEvent([]models.StockEventLineItem{{OrderableID: "orderable-y", Quantity: 10, ReasonID: "reason-damaged"}})

	card, err := l.GetCard("card-2")
	require.NoError(t, err)
	assert.Equal(t, 60, card.StockOnHand)
}

func TestRecordEventUnknownOrderable(t *testing.T) {
	l := newTestLedger(t)
	before := l.ListCards(models.StockCardFilter{})

	res := l.RecordEvent([]models.StockEventLineItem{
		{OrderableID: "orderable-unknown", Quantity: 99},
		{OrderableID: "orderable-y", Quantity: 1},
	})

	assert.Equal(t, 2, res.LineItems)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, []string{"orderable-unknown"}, res.SkippedOrderableIDs)

	after := l.ListCards(models.StockCardFilter{})
	require.Len(t, after, len(before))
	for i := range before {
		if before[i].ID == "card-2" {
			assert.Equal(t, before[i].StockOnHand+1, after[i].StockOnHand)
			continue
		}
		assert.Equal(t, before[i].StockOnHand, after[i].StockOnHand)
		assert.Len(t, after[i].LineItems, len(before[i].LineItems))
	}
}

func TestRecordEventEmpty(t *testing.T) {
	l := newTestLedger(t)

	res := l.RecordEvent(nil)
	assert.Equal(t, 0, res.LineItems)
	assert.Equal(t, StatusProcessed, res.Status)
}

func TestReadsArePure(t *testing.T) {
	l := newTestLedger(t)
	l.RecordEvent([]models.StockEventLineItem{{OrderableID: "orderable-x", Quantity: 3}})

	for i := 0; i < 5; i++ {
		card, err := l.GetCard("card-1")
		require.NoError(t, err)
		card.StockOnHand = 0
		card.LineItems = append(card.LineItems, models.StockLineItem{ID: "tampered"})
		_ = l.ListCards(models.StockCardFilter{})
		_ = l.Summaries("", "")
	}

	card, err := l.GetCard("card-1")
	require.NoError(t, err)
	assert.Equal(t, 103, card.StockOnHand)
	assert.Len(t, card.LineItems, 1)
}

func TestListCardsFilter(t *testing.T) {
	l := newTestLedger(t)

	assert.Len(t, l.ListCards(models.StockCardFilter{}), 3)
	assert.Len(t, l.ListCards(models.StockCardFilter{FacilityID: "fac-1"}), 2)
	assert.Len(t, l.ListCards(models.StockCardFilter{OrderableID: "orderable-x"}), 2)
	assert.Len(t, l.ListCards(models.StockCardFilter{FacilityID: "fac-2", OrderableID: "orderable-x"}), 1)
	assert.Empty(t, l.ListCards(models.StockCardFilter{ProgramID: "prog-9"}))
}

func TestGetCardNotFound(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.GetCard("nope")
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, "Stock card not found", err.Error())
}

func TestSummaries(t *testing.T) {
	l := newTestLedger(t)

	sums := l.Summaries("fac-1", "")
	require.Len(t, sums, 2)
	assert.Equal(t, "card-1", sums[0].StockCard.ID)
	assert.Equal(t, "orderable-x", sums[0].Orderable.ID)
	assert.Equal(t, 100, sums[0].StockOnHand)

	assert.Len(t, l.Summaries("fac-1", "prog-2"), 1)
}

func TestStaticLists(t *testing.T) {
	l := newTestLedger(t)

	assert.Len(t, l.ValidSources(), 1)
	assert.Len(t, l.ValidDestinations(), 2)

	reasons := l.LineItemReasons()
	require.Len(t, reasons, 6)
	credits := 0
	for _, r := range reasons {
		if r.ReasonType == models.ReasonCredit {
			credits++
		}
	}
	assert.Equal(t, 2, credits)
}

func TestConcurrentEventsAccumulate(t *testing.T) {
	l := newTestLedger(t)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.RecordEvent([]models.StockEventLineItem{{OrderableID: "orderable-x", Quantity: 2}})
		}()
	}
	wg.Wait()

	card, err := l.GetCard("card-1")
	require.NoError(t, err)
	assert.Equal(t, 100+2*workers, card.StockOnHand)
	assert.Len(t, card.LineItems, workers)
}
