// Package inmem is the in-process store driver. Each table keeps insertion order
// and is guarded by its own RWMutex. Records are copied in and out so callers
// never share memory with the tables.
package inmem

import (
	"sync"
	"time"

	"github.com/noah-isme/classfee-api/internal/models"
)

type (
	// DB owns the class, student and payment tables for the lifetime of the process.
	DB struct {
		classes  *classTable
		students *studentTable
		payments *paymentTable
		now      func() time.Time
	}

	classTable struct {
		rows  []models.Class
		mutex sync.RWMutex
	}

	studentTable struct {
		rows  []models.Student
		mutex sync.RWMutex
	}

	paymentTable struct {
		rows  []models.Payment
		mutex sync.RWMutex
	}
)

// Open returns an empty database.
func Open() *DB {
	return &DB{
		classes:  &classTable{},
		students: &studentTable{},
		payments: &paymentTable{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}
