package fixtures

import (
	"context"
	"testing"
	"testing/fstest"

	"lmis-mock-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	b, err := Load(context.Background(), Embedded())
	require.NoError(t, err)

	require.NotEmpty(t, b.Requisitions)
	assert.Equal(t, "req-001-uuid-mock", b.Requisitions[0].ID)
	assert.Equal(t, models.StatusInitiated, b.Requisitions[0].Status)
	assert.Len(t, b.Requisitions[0].LineItems, 2)

	require.NotEmpty(t, b.Stock.StockCards)
	card := b.Stock.StockCards[0]
	assert.Equal(t, "stock-card-001", card.ID)
	assert.Equal(t, 170, card.StockOnHand)

	assert.NotEmpty(t, b.Stock.ValidSources)
	assert.NotEmpty(t, b.Stock.ValidDestinations)
	assert.NotEmpty(t, b.Reference.Facilities)
	assert.NotEmpty(t, b.Reference.ProcessingPeriods)
	assert.NotEmpty(t, b.FHIR.Patients)
	assert.NotEmpty(t, b.FHIR.PractitionerRoles)

	require.NotEmpty(t, b.Users)
	assert.Equal(t, "administrator", b.Users[0].Username)
}

// Every seeded card's balance must equal the sum of its history.
func TestEmbeddedStockIsConsistent(t *testing.T) {
	b, err := Load(context.Background(), Embedded())
	require.NoError(t, err)

	for _, c := range b.Stock.StockCards {
		sum := 0
		for _, li := range c.LineItems {
			sum += li.Quantity
		}
		assert.Equal(t, sum, c.StockOnHand, c.ID)
	}
}

func TestLoadMissingFile(t *testing.T) {
	src := FSSource{FS: fstest.MapFS{
		"requisitions.json": {Data: []byte(`{"requisitions": []}`)},
	}}
	_, err := Load(context.Background(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), StockFile)
}

func TestLoadMalformedFile(t *testing.T) {
	src := FSSource{FS: fstest.MapFS{
		"requisitions.json": {Data: []byte(`{"requisitions": [`)},
	}}
	_, err := Load(context.Background(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
