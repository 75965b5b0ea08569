package repository

import (
	"context"
	"errors"

	"github.com/faarish/invoicing-api/internal/domain/entity"
	domainRepo "github.com/faarish/invoicing-api/internal/domain/repository"
	"github.com/faarish/invoicing-api/pkg/apperror"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	err := r.db.WithContext(ctx).Create(invoice).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Two clients can be handed the same next-number; the unique
		// index is the only backstop for that race.
		return apperror.NewConflictError("Invoice number already exists")
	}
	return err
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uint) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) List(ctx context.Context) ([]entity.InvoiceSummary, error) {
	var summaries []entity.InvoiceSummary
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Select("id, invoice_number, date, total").
		Order("date DESC").
		Find(&summaries).Error
	return summaries, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	err := r.db.WithContext(ctx).Save(invoice).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewConflictError("Invoice number already exists")
	}
	return err
}

func (r *invoiceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Invoice{}, "id = ?", id).Error
}

func (r *invoiceRepository) NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Pluck("invoice_number", &numbers).Error
	return numbers, err
}
