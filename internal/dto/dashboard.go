package dto

import "github.com/noah-isme/classfee-api/internal/models"

// DashboardSummary is the admin dashboard payload.
type DashboardSummary struct {
	TotalStudents    int                        `json:"totalStudents"`
	ActiveStudents   int                        `json:"activeStudents"`
	TotalClasses     int                        `json:"totalClasses"`
	TotalCollected   float64                    `json:"totalCollected"`
	TotalPending     float64                    `json:"totalPending"`
	StatusCounts     StatusCounts               `json:"statusCounts"`
	Monthly          []MonthlyTotal             `json:"monthly"`
	StudentsPerClass []models.ClassStudentCount `json:"studentsPerClass"`
}

// StatusCounts tallies payments by status.
type StatusCounts struct {
	Paid   int `json:"paid"`
	Unpaid int `json:"unpaid"`
}

// MonthlyTotal aggregates payment amounts for one billing period.
type MonthlyTotal struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Label  string  `json:"label"`
	Paid   float64 `json:"paid"`
	Unpaid float64 `json:"unpaid"`
	Total  float64 `json:"total"`
}
