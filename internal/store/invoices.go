package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlellaGreenTech/Invoice-app/constants"
	"github.com/AlellaGreenTech/Invoice-app/internal/common"
	"github.com/AlellaGreenTech/Invoice-app/internal/entity"
)

// InvoiceRepository is the persistence boundary for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*entity.Invoice, error)
	Update(ctx context.Context, inv *entity.Invoice) error
	MarkReviewed(ctx context.Context, id uuid.UUID) error
}

type invoiceRepository struct {
	db *DB
}

func NewInvoiceRepository(db *DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `id, batch_id, source_file_id, filename, vendor_name,
	invoice_number, invoice_date, total_amount, currency, currency_confidence,
	converted_amount, category, category_confidence, category_reasoning,
	raw_text, extraction_method, status, manually_reviewed, error_message,
	created_at, updated_at`

func (r *invoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	now := time.Now().UTC()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	inv.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.rebind(`
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		inv.ID.String(), inv.BatchID.String(), inv.SourceFileID, inv.Filename,
		nullStr(inv.VendorName), nullStr(inv.InvoiceNumber),
		formatTimePtr(inv.InvoiceDate), nullDec(inv.TotalAmount),
		nullStr(inv.Currency), inv.CurrencyConfidence,
		nullDec(inv.ConvertedAmount), nullStr(inv.Category),
		inv.CategoryConfidence, nullStr(inv.CategoryReasoning),
		inv.RawText, nullStr(inv.ExtractionMethod), string(inv.Status),
		boolToInt(inv.ManuallyReviewed), nullStr(inv.ErrorMessage),
		formatTime(inv.CreatedAt), formatTime(inv.UpdatedAt),
	)
	if err != nil {
		return common.NewAppError("DB_ERROR", "create invoice", errors.Join(common.ErrDatabase, err))
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`), id.String())
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("INVOICE_NOT_FOUND", "invoice "+id.String(), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "get invoice", errors.Join(common.ErrDatabase, err))
	}
	return inv, nil
}

func (r *invoiceRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*entity.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		`SELECT `+invoiceColumns+` FROM invoices WHERE batch_id = ? ORDER BY created_at, id`),
		batchID.String())
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "list invoices", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, common.NewAppError("DB_ERROR", "scan invoice", errors.Join(common.ErrDatabase, err))
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invoiceRepository) Update(ctx context.Context, inv *entity.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, r.db.rebind(`
		UPDATE invoices SET vendor_name = ?, invoice_number = ?, invoice_date = ?,
			total_amount = ?, currency = ?, currency_confidence = ?,
			converted_amount = ?, category = ?, category_confidence = ?,
			category_reasoning = ?, raw_text = ?, extraction_method = ?,
			status = ?, manually_reviewed = ?, error_message = ?, updated_at = ?
		WHERE id = ?`),
		nullStr(inv.VendorName), nullStr(inv.InvoiceNumber),
		formatTimePtr(inv.InvoiceDate), nullDec(inv.TotalAmount),
		nullStr(inv.Currency), inv.CurrencyConfidence,
		nullDec(inv.ConvertedAmount), nullStr(inv.Category),
		inv.CategoryConfidence, nullStr(inv.CategoryReasoning),
		inv.RawText, nullStr(inv.ExtractionMethod), string(inv.Status),
		boolToInt(inv.ManuallyReviewed), nullStr(inv.ErrorMessage),
		formatTime(inv.UpdatedAt), inv.ID.String(),
	)
	if err != nil {
		return common.NewAppError("DB_ERROR", "update invoice", errors.Join(common.ErrDatabase, err))
	}
	return nil
}

func (r *invoiceRepository) MarkReviewed(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`
		UPDATE invoices SET manually_reviewed = 1, updated_at = ? WHERE id = ?`),
		formatTime(time.Now().UTC()), id.String())
	if err != nil {
		return common.NewAppError("DB_ERROR", "mark invoice reviewed", errors.Join(common.ErrDatabase, err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NewAppError("INVOICE_NOT_FOUND", "invoice "+id.String(), common.ErrNotFound)
	}
	return nil
}

func nullDec(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var (
		inv                  entity.Invoice
		id, batchID, status  string
		createdAt, updatedAt string
		vendorName           sql.NullString
		invoiceNumber        sql.NullString
		invoiceDate          sql.NullString
		totalAmount          sql.NullString
		currency             sql.NullString
		convertedAmount      sql.NullString
		category             sql.NullString
		reasoning            sql.NullString
		extractionMethod     sql.NullString
		errMsg               sql.NullString
		reviewed             int
		currencyConf         float64
		categoryConf         float64
	)

	if err := row.Scan(&id, &batchID, &inv.SourceFileID, &inv.Filename,
		&vendorName, &invoiceNumber, &invoiceDate,
		&totalAmount, &currency, &currencyConf,
		&convertedAmount, &category, &categoryConf, &reasoning,
		&inv.RawText, &extractionMethod, &status, &reviewed, &errMsg,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if inv.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if inv.BatchID, err = uuid.Parse(batchID); err != nil {
		return nil, err
	}
	inv.Status = constants.InvoiceStatus(status)
	inv.ManuallyReviewed = reviewed != 0
	inv.CurrencyConfidence = float32(currencyConf)
	inv.CategoryConfidence = float32(categoryConf)

	inv.VendorName = strPtr(vendorName)
	inv.InvoiceNumber = strPtr(invoiceNumber)
	inv.Currency = strPtr(currency)
	inv.Category = strPtr(category)
	inv.CategoryReasoning = strPtr(reasoning)
	inv.ExtractionMethod = strPtr(extractionMethod)
	inv.ErrorMessage = strPtr(errMsg)

	if inv.InvoiceDate, err = parseTimePtr(invoiceDate); err != nil {
		return nil, err
	}
	if inv.TotalAmount, err = decPtrFrom(totalAmount); err != nil {
		return nil, err
	}
	if inv.ConvertedAmount, err = decPtrFrom(convertedAmount); err != nil {
		return nil, err
	}
	if inv.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if inv.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func decPtrFrom(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
