package service

import (
	"sort"

	"github.com/noah-isme/classfee-api/internal/dto"
	"github.com/noah-isme/classfee-api/internal/models"
	"github.com/noah-isme/classfee-api/pkg/format"
)

// CountStudents returns the total and active student counts.
func CountStudents(students []models.Student) (total, active int) {
	for _, s := range students {
		if s.IsActive {
			active++
		}
	}
	return len(students), active
}

// TotalByStatus sums the amounts of payments in the given status.
func TotalByStatus(payments []models.Payment, status models.PaymentStatus) float64 {
	var total float64
	for _, p := range payments {
		if p.Status == status {
			total += p.Amount
		}
	}
	return total
}

// CountByStatus tallies payments by status.
func CountByStatus(payments []models.Payment) dto.StatusCounts {
	var counts dto.StatusCounts
	for _, p := range payments {
		switch p.Status {
		case models.PaymentStatusPaid:
			counts.Paid++
		case models.PaymentStatusUnpaid:
			counts.Unpaid++
		}
	}
	return counts
}

// MonthlyTotals groups payments by billing period, oldest first.
func MonthlyTotals(payments []models.Payment) []dto.MonthlyTotal {
	type period struct{ year, month int }

	index := make(map[period]int)
	totals := make([]dto.MonthlyTotal, 0)
	for _, p := range payments {
		key := period{p.Year, p.Month}
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, dto.MonthlyTotal{
				Year:  p.Year,
				Month: p.Month,
				Label: format.PeriodLabel(p.Month, p.Year),
			})
		}
		totals[i].Total += p.Amount
		if p.Status == models.PaymentStatusPaid {
			totals[i].Paid += p.Amount
		} else {
			totals[i].Unpaid += p.Amount
		}
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Month < totals[j].Month
	})
	return totals
}

// StudentsPerClass counts every student of each class, in class order.
func StudentsPerClass(classes []models.Class, students []models.Student) []models.ClassStudentCount {
	perClass := make(map[string]int, len(classes))
	for _, s := range students {
		perClass[s.ClassID]++
	}

	counts := make([]models.ClassStudentCount, 0, len(classes))
	for _, c := range classes {
		counts = append(counts, models.ClassStudentCount{ClassID: c.ID, Name: c.Name, Count: perClass[c.ID]})
	}
	return counts
}

// FilterPayments keeps the payments matching every set dimension of filter, preserving order.
func FilterPayments(payments []models.Payment, filter models.PaymentFilter) []models.Payment {
	filtered := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		if filter.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// SummarizePayments builds the payment management totals.
func SummarizePayments(payments []models.Payment) dto.PaymentListSummary {
	counts := CountByStatus(payments)
	return dto.PaymentListSummary{
		Count:       len(payments),
		Paid:        counts.Paid,
		Unpaid:      counts.Unpaid,
		Collected:   TotalByStatus(payments, models.PaymentStatusPaid),
		Outstanding: TotalByStatus(payments, models.PaymentStatusUnpaid),
	}
}
