package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(schema).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, EnsureSchema(context.Background(), sqlx.NewDb(db, "sqlmock")))

	mock.ExpectExec(schema).WillReturnError(errors.New("permission denied"))
	err = EnsureSchema(context.Background(), sqlx.NewDb(db, "sqlmock"))
	assert.ErrorContains(t, err, "apply schema")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaKeepsAmountsUnscaled(t *testing.T) {
	// fee, class_fee and amount must round-trip whatever numeric value was accepted
	assert.NotRegexp(t, regexp.MustCompile(`NUMERIC\s*\(`), schema)
	assert.Contains(t, schema, "fee         NUMERIC NOT NULL CHECK (fee >= 0)")
	assert.Contains(t, schema, "amount        NUMERIC NOT NULL")
}
