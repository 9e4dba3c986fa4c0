package dto

// MonthlyFeeRequest asks for one unpaid payment per selected student for a billing period.
type MonthlyFeeRequest struct {
	ClassID    string   `json:"classId" validate:"notblank"`
	Month      string   `json:"month" validate:"required,billing_month"`
	Year       string   `json:"year" validate:"required,billing_year"`
	StudentIDs []string `json:"studentIds" validate:"required,min=1,dive,notblank"`
}

// PaymentStatusRequest moves a payment between paid and unpaid.
type PaymentStatusRequest struct {
	Status string `json:"status" validate:"required,payment_status"`
}

// PaymentListQuery filters the payment ledger. Empty values and status "all" match everything.
type PaymentListQuery struct {
	ClassID string `form:"classId" json:"classId"`
	Month   string `form:"month" json:"month" validate:"omitempty,billing_month"`
	Year    string `form:"year" json:"year" validate:"omitempty,billing_year"`
	Status  string `form:"status" json:"status" validate:"omitempty,oneof=paid unpaid all"`
}

// PaymentExportQuery selects the export format on top of the ledger filters.
type PaymentExportQuery struct {
	ClassID string `form:"classId" json:"classId"`
	Month   string `form:"month" json:"month" validate:"omitempty,billing_month"`
	Year    string `form:"year" json:"year" validate:"omitempty,billing_year"`
	Status  string `form:"status" json:"status" validate:"omitempty,oneof=paid unpaid all"`
	Format  string `form:"format" json:"format" validate:"omitempty,oneof=csv pdf"`
}

// ListQuery returns the ledger filter part of the export query.
func (q PaymentExportQuery) ListQuery() PaymentListQuery {
	return PaymentListQuery{ClassID: q.ClassID, Month: q.Month, Year: q.Year, Status: q.Status}
}

// PaymentListSummary totals the filtered ledger for the payment management view.
type PaymentListSummary struct {
	Count       int     `json:"count"`
	Paid        int     `json:"paid"`
	Unpaid      int     `json:"unpaid"`
	Collected   float64 `json:"collected"`
	Outstanding float64 `json:"outstanding"`
}
