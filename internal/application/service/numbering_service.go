package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/faarish/invoicing-api/internal/domain/repository"
)

// NumberingService derives the next invoice number for the current
// calendar year. It is read-only and does not reserve the number: two
// concurrent callers can receive the same value, and the store's unique
// constraint rejects the loser at save time.
type NumberingService struct {
	invoiceRepo repository.InvoiceRepository
	now         func() time.Time
}

// NewNumberingService creates a new numbering service
func NewNumberingService(invoiceRepo repository.InvoiceRepository) *NumberingService {
	return &NumberingService{
		invoiceRepo: invoiceRepo,
		now:         time.Now,
	}
}

// NextNumber returns the next unused invoice number for the current
// year, formatted INV-<year>-<seq> with the sequence zero-padded to
// four digits. Past 9999 the padding widens instead of truncating.
func (s *NumberingService) NextNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", s.now().Year())

	numbers, err := s.invoiceRepo.NumbersWithPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	// Compare parsed sequence values, not the raw strings: lexicographic
	// order diverges from numeric order once the sequence outgrows its
	// zero padding.
	maxSeq := 0
	for _, number := range numbers {
		seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	return fmt.Sprintf("%s%04d", prefix, maxSeq+1), nil
}
