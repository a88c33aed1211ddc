package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rendplus-backend/internal/model"
)

// ErrRegistry marks a read or write failure of the device token table.
// Callers must not assume a partial write succeeded when they see it.
var ErrRegistry = errors.New("device registry error")

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Device registry. Exclusively written by the owning administrator's
	// session; the dispatcher only reads.
	UpsertDeviceToken(ctx context.Context, ownerID, token string) error
	RemoveDeviceToken(ctx context.Context, ownerID string) error
	GetDeviceToken(ctx context.Context, ownerID string) (*model.AdminDeviceToken, error)
	ListDeviceTokens(ctx context.Context) ([]model.AdminDeviceToken, error)

	CreateQuoteSubmission(ctx context.Context, quote *model.QuoteSubmission) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// UpsertDeviceToken inserts or replaces the registration for ownerID. The
// owner column is the conflict target, so re-registering (token rotation, a
// second tab, a new browser) overwrites the previous row and refreshes
// updated_at. Idempotent.
func (s *gormStore) UpsertDeviceToken(ctx context.Context, ownerID, token string) error {
	row := model.AdminDeviceToken{
		OwnerID:   ownerID,
		Token:     token,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: upsert token for %s: %v", ErrRegistry, ownerID, err)
	}
	return nil
}

// RemoveDeviceToken deletes the registration for ownerID. Deleting an absent
// row is a no-op, not an error.
func (s *gormStore) RemoveDeviceToken(ctx context.Context, ownerID string) error {
	err := s.db.WithContext(ctx).Delete(&model.AdminDeviceToken{OwnerID: ownerID}).Error
	if err != nil {
		return fmt.Errorf("%w: remove token for %s: %v", ErrRegistry, ownerID, err)
	}
	return nil
}

// GetDeviceToken returns the current registration for ownerID, or
// gorm.ErrRecordNotFound when there is none.
func (s *gormStore) GetDeviceToken(ctx context.Context, ownerID string) (*model.AdminDeviceToken, error) {
	var row model.AdminDeviceToken
	err := s.db.WithContext(ctx).First(&row, "owner_id = ?", ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get token for %s: %v", ErrRegistry, ownerID, err)
	}
	return &row, nil
}

// ListDeviceTokens returns every current registration. Row order is not
// meaningful; the dispatcher treats the result as an unordered snapshot.
func (s *gormStore) ListDeviceTokens(ctx context.Context) ([]model.AdminDeviceToken, error) {
	var rows []model.AdminDeviceToken
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list tokens: %v", ErrRegistry, err)
	}
	return rows, nil
}

// CreateQuoteSubmission persists one submitted quote request.
func (s *gormStore) CreateQuoteSubmission(ctx context.Context, quote *model.QuoteSubmission) error {
	if err := s.db.WithContext(ctx).Create(quote).Error; err != nil {
		return fmt.Errorf("failed to create quote submission: %w", err)
	}
	return nil
}
