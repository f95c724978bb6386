package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMySQLStore_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS disposable_domains").
		WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewMySQLStoreFromDB(db, zap.NewNop())
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO disposable_domains").
		WithArgs("tempmail.org", "test", "2024-05-01 12:00:00", "2024-05-01 12:00:00").
		WillReturnResult(sqlmock.NewResult(0, 1))
	inserted, err := s.Upsert(context.Background(), record("tempmail.org", now))
	require.NoError(t, err)
	assert.True(t, inserted)

	mock.ExpectExec("INSERT INTO disposable_domains").
		WithArgs("tempmail.org", "test", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	inserted, err = s.Upsert(context.Background(), record("tempmail.org", now))
	require.NoError(t, err)
	assert.False(t, inserted)

	mock.ExpectExec("INSERT INTO disposable_domains").
		WithArgs("guerrillamail.com", "test", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver cannot report rows")))
	inserted, err = s.Upsert(context.Background(), record("guerrillamail.com", now))
	require.Error(t, err)
	assert.False(t, inserted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_ContainsAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS disposable_domains").
		WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewMySQLStoreFromDB(db, zap.NewNop())
	require.NoError(t, err)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("mailinator.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := s.Contains(context.Background(), "mailinator.com")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS disposable_domains").
		WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewMySQLStoreFromDB(db, zap.NewNop())
	require.NoError(t, err)

	boom := errors.New("connection refused")
	mock.ExpectQuery("SELECT EXISTS").WillReturnError(boom)

	_, err = s.Contains(context.Background(), "mailinator.com")
	assert.ErrorIs(t, err, boom)
}

func TestPostgresStore_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS disposable_domains").
		WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewPostgresStoreFromDB(db, zap.NewNop())
	require.NoError(t, err)

	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO disposable_domains").
		WithArgs("guerrillamail.com", "test", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))
	inserted, err := s.Upsert(context.Background(), record("guerrillamail.com", now))
	require.NoError(t, err)
	assert.True(t, inserted)

	mock.ExpectQuery("INSERT INTO disposable_domains").
		WithArgs("guerrillamail.com", "test", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))
	inserted, err = s.Upsert(context.Background(), record("guerrillamail.com", now))
	require.NoError(t, err)
	assert.False(t, inserted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ContainsAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS disposable_domains").
		WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewPostgresStoreFromDB(db, zap.NewNop())
	require.NoError(t, err)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("gmail.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	ok, err := s.Contains(context.Background(), "gmail.com")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, mock.ExpectationsWereMet())
}
