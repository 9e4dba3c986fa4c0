package models

import "time"

// Class represents a recurring course offering billed at a fixed monthly fee.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Fee       float64   `db:"fee" json:"fee"`
	StartDate string    `db:"start_date" json:"startDate"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ClassStudentCount pairs a class with the number of students enrolled in it.
type ClassStudentCount struct {
	ClassID string `json:"classId"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
}
