// Package services holds account and record behavior. Handlers translate HTTP to and
// from these calls; nothing here knows about requests or cookies.
package services

import (
	"context"
	"errors"

	"github.com/crucial707/visco/internal/models"
)

// ErrInvalidCredentials is the single outcome for every failed login, whatever the cause.
var ErrInvalidCredentials = errors.New("invalid username or password")

type UserStore interface {
	Create(ctx context.Context, username, email string, passwordHash []byte, role string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type RecordStore interface {
	Create(ctx context.Context, ownerID int, ciphertext []byte) (*models.ClientRecord, error)
	ListByOwner(ctx context.Context, ownerID int) ([]models.ClientRecord, error)
	GetByOwner(ctx context.Context, id, ownerID int) (*models.ClientRecord, error)
	DeleteByOwner(ctx context.Context, id, ownerID int) error
}

// Sealer encrypts record data at rest. *crypt.Cipher implements it.
type Sealer interface {
	Encrypt(plaintext string) ([]byte, error)
	Decrypt(ciphertext []byte) (string, error)
}
