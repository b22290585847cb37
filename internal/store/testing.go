package store

import (
	"database/sql"
)

// NewTestStore creates a DB for testing with an in-memory database.
// This is only intended for use in tests.
func NewTestStore() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection to :memory: would get its own empty database
	sqlDB.SetMaxOpenConns(1)

	db, err := setup(sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}
