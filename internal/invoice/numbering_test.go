package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLatestFetcher struct {
	latest *models.Invoice
	err    error
}

func (s *stubLatestFetcher) LatestByUser(ctx context.Context, userID string) (*models.Invoice, error) {
	return s.latest, s.err
}

func newTestGenerator(latest *models.Invoice, year int) *Generator {
	g := NewGenerator(&stubLatestFetcher{latest: latest})
	g.now = func() time.Time { return time.Date(year, 3, 10, 0, 0, 0, 0, time.UTC) }
	return g
}

func TestNextNumberFirstInvoice(t *testing.T) {
	g := newTestGenerator(nil, 2024)

	number, err := g.NextNumber(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "INV-2024-001", number)
}

func TestNextNumberIncrementsWithinYear(t *testing.T) {
	g := newTestGenerator(&models.Invoice{InvoiceNumber: "INV-2024-005"}, 2024)

	number, err := g.NextNumber(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "INV-2024-006", number)
}

func TestNextNumberResetsOnNewYear(t *testing.T) {
	g := newTestGenerator(&models.Invoice{InvoiceNumber: "INV-2023-010"}, 2024)

	number, err := g.NextNumber(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "INV-2024-001", number)
}

func TestNextNumberFallsBackOnMalformedNumber(t *testing.T) {
	g := newTestGenerator(&models.Invoice{InvoiceNumber: "INVOICE-X"}, 2024)

	number, err := g.NextNumber(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "INV-2024-001", number)
}

func TestNextNumberWidthGrowsPast999(t *testing.T) {
	g := newTestGenerator(&models.Invoice{InvoiceNumber: "INV-2024-999"}, 2024)

	number, err := g.NextNumber(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "INV-2024-1000", number)
}

func TestNextNumberPropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("store unavailable")
	g := NewGenerator(&stubLatestFetcher{err: fetchErr})

	_, err := g.NextNumber(context.Background(), "user-1")

	assert.Equal(t, fetchErr, err)
}
