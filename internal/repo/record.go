package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/visco/internal/models"
)

// RecordRepo persists client_data rows. Every query is scoped by owner; that predicate is
// the only thing keeping one user's records away from another.
type RecordRepo struct {
	DB *sql.DB
}

func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{DB: db}
}

const recordColumns = `id, user_id, data, created_at, updated_at`

func scanRecord(row interface{ Scan(...any) error }) (*models.ClientRecord, error) {
	rec := &models.ClientRecord{}
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Create stores ciphertext for owner. created_at and updated_at come from the database clock.
func (r *RecordRepo) Create(ctx context.Context, ownerID int, ciphertext []byte) (*models.ClientRecord, error) {
	query := `
		INSERT INTO client_data (user_id, data)
		VALUES ($1, $2)
		RETURNING ` + recordColumns
	return scanRecord(r.DB.QueryRowContext(ctx, query, ownerID, ciphertext))
}

// ListByOwner returns owner's records in insertion order.
func (r *RecordRepo) ListByOwner(ctx context.Context, ownerID int) ([]models.ClientRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM client_data WHERE user_id = $1 ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.ClientRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// GetByOwner looks a record up by id and owner together.
func (r *RecordRepo) GetByOwner(ctx context.Context, id, ownerID int) (*models.ClientRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM client_data WHERE id = $1 AND user_id = $2`
	return scanRecord(r.DB.QueryRowContext(ctx, query, id, ownerID))
}

// DeleteByOwner removes a record in one statement. ErrNotFound covers both a missing id
// and a record owned by someone else.
func (r *RecordRepo) DeleteByOwner(ctx context.Context, id, ownerID int) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM client_data WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
