package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newFailingStore backs the store with sqlmock so individual statements can
// be made to fail, which an in-memory sqlite database cannot simulate.
func newFailingStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(db), mock
}

func TestRegistryFailuresAreMarked(t *testing.T) {
	ctx := context.Background()
	dbDown := errors.New("connection reset by peer")

	t.Run("list", func(t *testing.T) {
		s, mock := newFailingStore(t)
		mock.ExpectQuery(`SELECT \* FROM "admin_device_tokens"`).WillReturnError(dbDown)

		_, err := s.ListDeviceTokens(ctx)
		assert.ErrorIs(t, err, ErrRegistry)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get", func(t *testing.T) {
		s, mock := newFailingStore(t)
		mock.ExpectQuery(`SELECT \* FROM "admin_device_tokens"`).WillReturnError(dbDown)

		_, err := s.GetDeviceToken(ctx, "admin-1")
		assert.ErrorIs(t, err, ErrRegistry)
		assert.NotErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("remove", func(t *testing.T) {
		s, mock := newFailingStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "admin_device_tokens"`).WillReturnError(dbDown)
		mock.ExpectRollback()

		err := s.RemoveDeviceToken(ctx, "admin-1")
		assert.ErrorIs(t, err, ErrRegistry)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// An absent row is a lookup miss, not a registry failure: the two must stay
// distinguishable for the API layer's 404 handling.
func TestGetDeviceTokenAbsentIsNotRegistryError(t *testing.T) {
	s, mock := newFailingStore(t)
	mock.ExpectQuery(`SELECT \* FROM "admin_device_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "token", "created_at", "updated_at"}))

	_, err := s.GetDeviceToken(context.Background(), "admin-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NotErrorIs(t, err, ErrRegistry)
	assert.NoError(t, mock.ExpectationsWereMet())
}
