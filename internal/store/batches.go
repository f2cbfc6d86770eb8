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

// BatchRepository is the persistence boundary for batches.
type BatchRepository interface {
	Create(ctx context.Context, b *entity.Batch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Batch, error)
	List(ctx context.Context, limit int) ([]*entity.Batch, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.BatchStatus, errMsg *string) error
	UpdateProgress(ctx context.Context, id uuid.UUID, total, processed, failed int) error
	Finalize(ctx context.Context, b *entity.Batch) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type batchRepository struct {
	db *DB
}

func NewBatchRepository(db *DB) BatchRepository {
	return &batchRepository{db: db}
}

const batchColumns = `id, source_locator, status, total_invoices, processed_invoices,
	failed_invoices, total_amount, currency, date_range_start, date_range_end,
	error_message, created_at, completed_at`

func (r *batchRepository) Create(ctx context.Context, b *entity.Batch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.Status == "" {
		b.Status = constants.BatchPending
	}

	_, err := r.db.ExecContext(ctx, r.db.rebind(`
		INSERT INTO batches (`+batchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		b.ID.String(), b.SourceLocator, string(b.Status),
		b.TotalInvoices, b.ProcessedInvoices, b.FailedInvoices,
		b.TotalAmount.String(), nullStr(b.Currency),
		formatTimePtr(b.DateRangeStart), formatTimePtr(b.DateRangeEnd),
		nullStr(b.ErrorMessage), formatTime(b.CreatedAt), formatTimePtr(b.CompletedAt),
	)
	if err != nil {
		return common.NewAppError("DB_ERROR", "create batch", errors.Join(common.ErrDatabase, err))
	}
	return nil
}

func (r *batchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Batch, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT `+batchColumns+` FROM batches WHERE id = ?`), id.String())
	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("BATCH_NOT_FOUND", "batch "+id.String(), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "get batch", errors.Join(common.ErrDatabase, err))
	}
	return b, nil
}

func (r *batchRepository) List(ctx context.Context, limit int) ([]*entity.Batch, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		`SELECT `+batchColumns+` FROM batches ORDER BY created_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "list batches", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

	var out []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, common.NewAppError("DB_ERROR", "scan batch", errors.Join(common.ErrDatabase, err))
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *batchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.BatchStatus, errMsg *string) error {
	var completedAt any
	if status == constants.BatchCompleted || status == constants.BatchFailed {
		completedAt = formatTime(time.Now().UTC())
	}
	_, err := r.db.ExecContext(ctx, r.db.rebind(`
		UPDATE batches SET status = ?, error_message = ?,
			completed_at = COALESCE(?, completed_at)
		WHERE id = ?`),
		string(status), nullStr(errMsg), completedAt, id.String(),
	)
	if err != nil {
		return common.NewAppError("DB_ERROR", "update batch status", errors.Join(common.ErrDatabase, err))
	}
	return nil
}

func (r *batchRepository) UpdateProgress(ctx context.Context, id uuid.UUID, total, processed, failed int) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(`
		UPDATE batches SET total_invoices = ?, processed_invoices = ?, failed_invoices = ?
		WHERE id = ?`),
		total, processed, failed, id.String(),
	)
	if err != nil {
		return common.NewAppError("DB_ERROR", "update batch progress", errors.Join(common.ErrDatabase, err))
	}
	return nil
}

// Finalize writes the aggregate fields computed at batch completion.
func (r *batchRepository) Finalize(ctx context.Context, b *entity.Batch) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(`
		UPDATE batches SET status = ?, total_invoices = ?, processed_invoices = ?,
			failed_invoices = ?, total_amount = ?, currency = ?,
			date_range_start = ?, date_range_end = ?, error_message = ?, completed_at = ?
		WHERE id = ?`),
		string(b.Status), b.TotalInvoices, b.ProcessedInvoices, b.FailedInvoices,
		b.TotalAmount.String(), nullStr(b.Currency),
		formatTimePtr(b.DateRangeStart), formatTimePtr(b.DateRangeEnd),
		nullStr(b.ErrorMessage), formatTimePtr(b.CompletedAt),
		b.ID.String(),
	)
	if err != nil {
		return common.NewAppError("DB_ERROR", "finalize batch", errors.Join(common.ErrDatabase, err))
	}
	return nil
}

// DeleteOlderThan removes batches created before cutoff. Invoices cascade.
func (r *batchRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.rebind(
		`DELETE FROM batches WHERE created_at < ?`), formatTime(cutoff))
	if err != nil {
		return 0, common.NewAppError("DB_ERROR", "delete old batches", errors.Join(common.ErrDatabase, err))
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*entity.Batch, error) {
	var (
		b           entity.Batch
		id, status  string
		totalAmount string
		createdAt   string
		currency    sql.NullString
		rangeStart  sql.NullString
		rangeEnd    sql.NullString
		errMsg      sql.NullString
		completedAt sql.NullString
	)

	if err := row.Scan(&id, &b.SourceLocator, &status,
		&b.TotalInvoices, &b.ProcessedInvoices, &b.FailedInvoices,
		&totalAmount, &currency, &rangeStart, &rangeEnd,
		&errMsg, &createdAt, &completedAt,
	); err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	b.ID = parsedID
	b.Status = constants.BatchStatus(status)

	if b.TotalAmount, err = decimal.NewFromString(totalAmount); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	b.Currency = strPtr(currency)
	b.ErrorMessage = strPtr(errMsg)
	if b.DateRangeStart, err = parseTimePtr(rangeStart); err != nil {
		return nil, err
	}
	if b.DateRangeEnd, err = parseTimePtr(rangeEnd); err != nil {
		return nil, err
	}
	if b.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
