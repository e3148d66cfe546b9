package models

// WeekGroup is one rendered block of the attendance/finance views: a week
// header followed by its records, dates descending.
type WeekGroup struct {
	Week int       `json:"week"`
	Rows []WeekRow `json:"rows"`
}

// WeekRow carries either an attendance day or a finance transaction,
// depending on which view produced it.
type WeekRow struct {
	Date        string       `json:"date"`
	Attendance  *DayRecord   `json:"attendance,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

// FinanceView is the GET /finance response body.
type FinanceView struct {
	Tuition float64     `json:"tuition"`
	Paid    float64     `json:"paid"`
	Due     float64     `json:"due"`
	Weeks   []WeekGroup `json:"weeks"`
}
