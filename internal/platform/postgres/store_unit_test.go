package postgres

import (
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewStoresRejectNilDB verifies the constructors panic when no
// database handle is provided.
func TestNewStoresRejectNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresTaskStore(nil, slog.Default()) })
	assert.Panics(t, func() { NewPostgresTeamStore(nil, slog.Default()) })
	assert.Panics(t, func() { NewPostgresScoreStore(nil, slog.Default()) })
}

// TestTaskStoreWithTx tests the WithTx method for the task store
func TestTaskStoreWithTx(t *testing.T) {
	t.Parallel()

	db := &sql.DB{}
	store := NewPostgresTaskStore(db, slog.Default())
	tx := &sql.Tx{}

	result := store.WithTx(tx)

	txStore, ok := result.(*PostgresTaskStore)
	assert.True(t, ok, "WithTx should return a PostgresTaskStore instance")
	assert.Equal(t, tx, txStore.db, "WithTx store should use the provided transaction")
	assert.Equal(t, store.logger, txStore.logger, "WithTx store should preserve the logger")
	assert.Equal(t, db, store.db, "original store should keep its own handle")
}

// TestTeamStoreWithTx tests the WithTx method for the team store
func TestTeamStoreWithTx(t *testing.T) {
	t.Parallel()

	db := &sql.DB{}
	store := NewPostgresTeamStore(db, slog.Default())
	tx := &sql.Tx{}

	result := store.WithTx(tx)

	txStore, ok := result.(*PostgresTeamStore)
	assert.True(t, ok, "WithTx should return a PostgresTeamStore instance")
	assert.Equal(t, tx, txStore.db, "WithTx store should use the provided transaction")
	assert.Equal(t, store.logger, txStore.logger, "WithTx store should preserve the logger")
}

// TestScoreStoreWithTx tests the WithTx method for the score store
func TestScoreStoreWithTx(t *testing.T) {
	t.Parallel()

	db := &sql.DB{}
	store := NewPostgresScoreStore(db, slog.Default())
	tx := &sql.Tx{}

	result := store.WithTx(tx)

	txStore, ok := result.(*PostgresScoreStore)
	assert.True(t, ok, "WithTx should return a PostgresScoreStore instance")
	assert.Equal(t, tx, txStore.db, "WithTx store should use the provided transaction")
	assert.Equal(t, store.logger, txStore.logger, "WithTx store should preserve the logger")
}

// TestNilLoggerFallsBackToDefault verifies the constructors tolerate a
// nil logger instead of panicking later on a log call.
func TestNilLoggerFallsBackToDefault(t *testing.T) {
	t.Parallel()

	db := &sql.DB{}

	assert.NotNil(t, NewPostgresTaskStore(db, nil).logger)
	assert.NotNil(t, NewPostgresTeamStore(db, nil).logger)
	assert.NotNil(t, NewPostgresScoreStore(db, nil).logger)
}
