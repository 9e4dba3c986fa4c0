package repository

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned by every store driver when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
