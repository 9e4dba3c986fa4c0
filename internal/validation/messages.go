package validation

import "github.com/noah-isme/classfee-api/internal/dto"

func registerRequestMessages(v *Validator) {
	v.Register(dto.ClassRequest{}, Messages{
		"name.notblank":      "Class name is required",
		"fee.required":       "Fee is required",
		"fee.decimal":        "Fee must be a number",
		"fee.nonnegative":    "Fee must be a positive number",
		"startDate.required": "Start date is required",
		"startDate.datetime": "Start date must be a valid date (YYYY-MM-DD)",
	})

	v.Register(dto.StudentRequest{}, Messages{
		"name.notblank":        "Student name is required",
		"parentName.notblank":  "Parent name is required",
		"phoneNumber.required": "Phone number is required",
		"phoneNumber.phone10":  "Phone number must be 10 digits",
		"classId.notblank":     "Class is required",
	})

	v.Register(dto.StudentListQuery{}, Messages{
		"active.oneof": "Active must be true or false",
	})

	v.Register(dto.MonthlyFeeRequest{}, Messages{
		"classId.notblank":    "Class is required",
		"month.required":      "Month is required",
		"month.billing_month": "Month must be between 1 and 12",
		"year.required":       "Year is required",
		"year.billing_year":   "Year must be a four-digit year",
		"studentIds.required": "At least one student must be selected",
		"studentIds.min":      "At least one student must be selected",
	})

	v.Register(dto.PaymentStatusRequest{}, Messages{
		"status.required":       "Status is required",
		"status.payment_status": "Status must be either paid or unpaid",
	})

	v.Register(dto.PaymentListQuery{}, Messages{
		"month.billing_month": "Month must be between 1 and 12",
		"year.billing_year":   "Year must be a four-digit year",
		"status.oneof":        "Status must be one of paid, unpaid or all",
	})

	v.Register(dto.PaymentExportQuery{}, Messages{
		"month.billing_month": "Month must be between 1 and 12",
		"year.billing_year":   "Year must be a four-digit year",
		"status.oneof":        "Status must be one of paid, unpaid or all",
		"format.oneof":        "Format must be csv or pdf",
	})
}
