package controllers

import (
	"database/sql"
	"log"
	"net/http"

	"kommunity/models"
	"kommunity/utils"
)

// GetFinance returns the viewer's tuition summary plus the transactions
// mapping grouped by week number the same way attendance is.
func (c FinanceController) GetFinance(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFrom(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}

		user, err := fetchUser(db, session.UserID)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "User not found."})
			return
		}
		if err != nil {
			log.Printf("Error fetching user %s: %v", session.UserID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}

		dates := make([]string, 0, len(user.Transactions))
		for date := range user.Transactions {
			dates = append(dates, date)
		}
		weeks := groupByWeek(dates, func(date string) models.WeekRow {
			tx := user.Transactions[date]
			return models.WeekRow{Date: date, Transaction: &tx}
		})

		utils.ResponseJSON(w, models.FinanceView{
			Tuition: user.Tuition,
			Paid:    user.Paid,
			Due:     user.Due,
			Weeks:   weeks,
		})
	}
}
