package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/visco/internal/metrics"
	"github.com/crucial707/visco/internal/models"
	"github.com/crucial707/visco/internal/validate"
)

// RecordView is a decrypted record. When Err is set the stored ciphertext could not be
// opened and Data is empty.
type RecordView struct {
	ID        int
	Data      string
	CreatedAt time.Time
	Err       error
}

type RecordService struct {
	Records RecordStore
	Cipher  Sealer
	Logger  *slog.Logger
}

func NewRecordService(records RecordStore, cipher Sealer, logger *slog.Logger) *RecordService {
	return &RecordService{Records: records, Cipher: cipher, Logger: logger}
}

// Add validates, encrypts and stores data for ownerID.
func (s *RecordService) Add(ctx context.Context, ownerID int, in validate.ClientData) (*models.ClientRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ct, err := s.Cipher.Encrypt(in.Data)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}
	rec, err := s.Records.Create(ctx, ownerID, ct)
	if err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	metrics.IncRecordOp("create")
	return rec, nil
}

// List returns ownerID's records in insertion order. A record that fails to decrypt is
// returned with Err set rather than failing the listing.
func (s *RecordService) List(ctx context.Context, ownerID int) ([]RecordView, error) {
	recs, err := s.Records.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]RecordView, 0, len(recs))
	for i := range recs {
		out = append(out, s.open(&recs[i]))
	}
	metrics.IncRecordOp("list")
	return out, nil
}

// Get returns one of ownerID's records. Records of other users are repo.ErrNotFound.
func (s *RecordService) Get(ctx context.Context, id, ownerID int) (RecordView, error) {
	rec, err := s.Records.GetByOwner(ctx, id, ownerID)
	if err != nil {
		return RecordView{}, err
	}
	metrics.IncRecordOp("get")
	return s.open(rec), nil
}

// Delete removes record id if ownerID owns it, else repo.ErrNotFound.
func (s *RecordService) Delete(ctx context.Context, id, ownerID int) error {
	if err := s.Records.DeleteByOwner(ctx, id, ownerID); err != nil {
		return err
	}
	metrics.IncRecordOp("delete")
	return nil
}

func (s *RecordService) open(rec *models.ClientRecord) RecordView {
	v := RecordView{ID: rec.ID, CreatedAt: rec.CreatedAt}
	data, err := s.Cipher.Decrypt(rec.Data)
	if err != nil {
		metrics.IncDecryptionFailure()
		s.Logger.Error("record decryption failed", "record_id", rec.ID, "user_id", rec.UserID, "err", err)
		v.Err = err
		return v
	}
	v.Data = data
	return v
}
