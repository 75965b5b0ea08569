package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/faarish/invoicing-api/internal/domain/entity"
	"github.com/faarish/invoicing-api/internal/infrastructure/repository"
)

func newNumberingFixture(t *testing.T, year int, existing ...string) *NumberingService {
	t.Helper()

	repo := repository.NewMemoryInvoiceRepository()
	for i, number := range existing {
		inv := &entity.Invoice{
			InvoiceNumber: number,
			Date:          fmt.Sprintf("2026-01-%02d", i+1),
		}
		if err := repo.Create(context.Background(), inv); err != nil {
			t.Fatalf("seed invoice %s: %v", number, err)
		}
	}

	svc := NewNumberingService(repo)
	svc.now = func() time.Time {
		return time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestNextNumber_EmptyYearStartsAtOne(t *testing.T) {
	svc := newNumberingFixture(t, 2026)

	number, err := svc.NextNumber(context.Background())
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if number != "INV-2026-0001" {
		t.Fatalf("expected INV-2026-0001, got %s", number)
	}
}

func TestNextNumber_Increments(t *testing.T) {
	svc := newNumberingFixture(t, 2026, "INV-2026-0012", "INV-2026-0047", "INV-2026-0003")

	number, err := svc.NextNumber(context.Background())
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if number != "INV-2026-0048" {
		t.Fatalf("expected INV-2026-0048, got %s", number)
	}
}

func TestNextNumber_ScopedByYear(t *testing.T) {
	svc := newNumberingFixture(t, 2026, "INV-2025-9999")

	number, err := svc.NextNumber(context.Background())
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if number != "INV-2026-0001" {
		t.Fatalf("expected sequence to restart for the new year, got %s", number)
	}
}

func TestNextNumber_WidensPastPadding(t *testing.T) {
	svc := newNumberingFixture(t, 2026, "INV-2026-9999", "INV-2026-10001")

	number, err := svc.NextNumber(context.Background())
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	// The numeric max wins even though "9999" sorts after "10001"
	// lexicographically.
	if number != "INV-2026-10002" {
		t.Fatalf("expected INV-2026-10002, got %s", number)
	}
}

func TestNextNumber_IgnoresMalformedSuffixes(t *testing.T) {
	svc := newNumberingFixture(t, 2026, "INV-2026-0005", "INV-2026-draft")

	number, err := svc.NextNumber(context.Background())
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if number != "INV-2026-0006" {
		t.Fatalf("expected INV-2026-0006, got %s", number)
	}
}
