package models

import "time"

// PaymentStatus enumerates the billing states of a payment.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"

	// PaymentStatusAll is the filter wildcard accepted from clients.
	PaymentStatusAll PaymentStatus = "all"
)

// Valid reports whether the status is one of the known values.
func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPaid || s == PaymentStatusUnpaid
}

// Payment is one billing-period obligation for one student.
//
// PaymentDate is set iff Status is paid. Amount, StudentID, ClassID and the
// period never change after creation.
type Payment struct {
	ID          string        `db:"id" json:"id"`
	StudentID   string        `db:"student_id" json:"studentId"`
	ClassID     string        `db:"class_id" json:"classId"`
	Amount      float64       `db:"amount" json:"amount"`
	Month       int           `db:"month" json:"month"`
	Year        int           `db:"year" json:"year"`
	Status      PaymentStatus `db:"status" json:"status"`
	PaymentDate *time.Time    `db:"payment_date" json:"paymentDate"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
}

// ApplyStatus sets the status and derives PaymentDate from it.
func (p *Payment) ApplyStatus(status PaymentStatus, at time.Time) {
	p.Status = status
	if status == PaymentStatusPaid {
		stamped := at.UTC()
		p.PaymentDate = &stamped
		return
	}
	p.PaymentDate = nil
}

// PaymentFilter selects payments for the payment management view. Zero values
// and the status "all" impose no constraint.
type PaymentFilter struct {
	ClassID string
	Month   int
	Year    int
	Status  PaymentStatus
}

// Matches reports whether every set dimension equals the payment's field.
func (f PaymentFilter) Matches(p Payment) bool {
	if f.ClassID != "" && p.ClassID != f.ClassID {
		return false
	}
	if f.Month != 0 && p.Month != f.Month {
		return false
	}
	if f.Year != 0 && p.Year != f.Year {
		return false
	}
	if f.Status != "" && f.Status != PaymentStatusAll && p.Status != f.Status {
		return false
	}
	return true
}
