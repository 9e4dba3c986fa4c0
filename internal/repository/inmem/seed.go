package inmem

import (
	"time"

	"github.com/noah-isme/classfee-api/internal/models"
)

func date(layout string) time.Time {
	t, _ := time.Parse("2006-01-02", layout)
	return t
}

// Seed loads the demo roster: three classes, four students (one inactive) and
// six payments spread over the month of now and the month before it.
func Seed(db *DB, now time.Time) {
	now = now.UTC()
	month, year := int(now.Month()), now.Year()
	prevMonth, prevYear := month-1, year
	if month == 1 {
		prevMonth, prevYear = 12, year-1
	}
	lastMonth := now.AddDate(0, -1, 0)

	classes := []models.Class{
		{ID: "class1", Name: "Mathematics", Fee: 150, StartDate: "2023-01-15", CreatedAt: date("2023-01-01")},
		{ID: "class2", Name: "Science", Fee: 180, StartDate: "2023-01-20", CreatedAt: date("2023-01-05")},
		{ID: "class3", Name: "English", Fee: 120, StartDate: "2023-01-10", CreatedAt: date("2023-01-02")},
	}
	students := []models.Student{
		{ID: "student1", Name: "John Doe", ParentName: "Robert Doe", PhoneNumber: "1234567890", IsActive: true, ClassID: "class1", ClassFee: 150, CreatedAt: date("2023-02-01")},
		{ID: "student2", Name: "Jane Smith", ParentName: "Mary Smith", PhoneNumber: "9876543210", IsActive: true, ClassID: "class2", ClassFee: 180, CreatedAt: date("2023-02-05")},
		{ID: "student3", Name: "Alex Johnson", ParentName: "David Johnson", PhoneNumber: "5551234567", IsActive: true, ClassID: "class3", ClassFee: 120, CreatedAt: date("2023-02-10")},
		{ID: "student4", Name: "Sophia Williams", ParentName: "James Williams", PhoneNumber: "7778889999", IsActive: false, ClassID: "class1", ClassFee: 150, CreatedAt: date("2023-02-15")},
	}

	payment := func(id, studentID, classID string, amount float64, m, y int, paid bool, at time.Time) models.Payment {
		p := models.Payment{ID: id, StudentID: studentID, ClassID: classID, Amount: amount, Month: m, Year: y, CreatedAt: at}
		if paid {
			p.ApplyStatus(models.PaymentStatusPaid, at)
		} else {
			p.ApplyStatus(models.PaymentStatusUnpaid, at)
		}
		return p
	}
	payments := []models.Payment{
		payment("payment1", "student1", "class1", 150, month, year, true, now),
		payment("payment2", "student2", "class2", 180, month, year, false, now),
		payment("payment3", "student3", "class3", 120, month, year, true, now),
		payment("payment4", "student4", "class1", 150, month, year, false, now),
		payment("payment5", "student1", "class1", 150, prevMonth, prevYear, true, lastMonth),
		payment("payment6", "student2", "class2", 180, prevMonth, prevYear, true, lastMonth),
	}

	db.classes.mutex.Lock()
	db.classes.rows = append(db.classes.rows, classes...)
	db.classes.mutex.Unlock()

	db.students.mutex.Lock()
	db.students.rows = append(db.students.rows, students...)
	db.students.mutex.Unlock()

	db.payments.mutex.Lock()
	db.payments.rows = append(db.payments.rows, payments...)
	db.payments.mutex.Unlock()
}
