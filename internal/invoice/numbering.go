package invoice

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
)

var invoiceNumberPattern = regexp.MustCompile(`^INV-(\d{4})-(\d+)$`)

// LatestFetcher is the single store operation number generation reads.
type LatestFetcher interface {
	LatestByUser(ctx context.Context, userID string) (*models.Invoice, error)
}

// Generator computes the next human-readable invoice number for a user. The
// sequence is per-user and resets every calendar year. This is a read-only
// preview; the number actually persisted is allocated atomically inside the
// invoice insert transaction (see InvoiceRepository.CreateWithItems), so two
// concurrent previews may return the same value without risking a duplicate
// stored number.
type Generator struct {
	fetcher LatestFetcher
	now     func() time.Time
}

func NewGenerator(fetcher LatestFetcher) *Generator {
	return &Generator{
		fetcher: fetcher,
		now:     time.Now,
	}
}

func (g *Generator) NextNumber(ctx context.Context, userID string) (string, error) {
	year := g.now().Year()

	latest, err := g.fetcher.LatestByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return formatNumber(year, 1), nil
	}

	lastYear, lastSeq, ok := parseNumber(latest.InvoiceNumber)
	if !ok || lastYear != year {
		// Malformed or previous-year numbers both restart the sequence.
		return formatNumber(year, 1), nil
	}
	return formatNumber(year, lastSeq+1), nil
}

func parseNumber(number string) (year, seq int, ok bool) {
	m := invoiceNumberPattern.FindStringSubmatch(number)
	if m == nil {
		return 0, 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return year, seq, true
}

func formatNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%03d", year, seq)
}
