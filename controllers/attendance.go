package controllers

import (
	"database/sql"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"sort"
	"time"

	"kommunity/models"
	"kommunity/utils"
)

// GetAttendance renders the viewer's attendance mapping grouped by week
// number, newest dates first. A new group opens whenever the computed
// week changes while walking down the sorted dates.
func (c AttendanceController) GetAttendance(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFrom(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}

		user, err := fetchUser(db, session.UserID)
		if err != nil {
			log.Printf("Error fetching user %s: %v", session.UserID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}

		weeks := groupByWeek(keysOfDays(user.Attendance), func(date string) models.WeekRow {
			record := user.Attendance[date]
			return models.WeekRow{Date: date, Attendance: &record}
		})

		utils.ResponseJSON(w, map[string]interface{}{"weeks": weeks})
	}
}

// GenerateMock bulk-writes randomized check-in/out times for every
// weekday between today and one month out. Demo affordance only.
func (c AttendanceController) GenerateMock(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFrom(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}

		user, err := fetchUser(db, session.UserID)
		if err != nil {
			log.Printf("Error fetching user %s: %v", session.UserID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}
		if user.Attendance == nil {
			user.Attendance = map[string]models.DayRecord{}
		}

		today := time.Now()
		end := today.AddDate(0, 1, 0)
		for day := today; day.Before(end); day = day.AddDate(0, 0, 1) {
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				continue
			}
			morning := time.Date(day.Year(), day.Month(), day.Day(), 7, 30, 0, 0, day.Location())
			checkIn := morning.Add(time.Duration(rand.Intn(60)) * time.Minute)
			checkOut := checkIn.Add(8*time.Hour + time.Duration(rand.Intn(90))*time.Minute)
			user.Attendance[day.Format("2006-01-02")] = models.DayRecord{
				CheckIn:  checkIn.Unix(),
				CheckOut: checkOut.Unix(),
			}
		}

		body, err := json.Marshal(user.Attendance)
		if err != nil {
			log.Printf("Error marshaling attendance: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}
		_, err = db.Exec("UPDATE users SET attendance = ? WHERE id = ?", body, session.UserID)
		if err != nil {
			log.Printf("Error writing attendance for %s: %v", session.UserID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Could not save attendance."})
			return
		}

		utils.ResponseJSON(w, map[string]interface{}{
			"message": "Mock attendance generated.",
			"days":    len(user.Attendance),
		})
	}
}

func keysOfDays(m map[string]models.DayRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// groupByWeek sorts date keys descending and slices them into WeekGroups
// by the school-year week number. Unparseable dates are skipped.
func groupByWeek(dates []string, rowFor func(date string) models.WeekRow) []models.WeekGroup {
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	start := utils.SchoolYearStart()

	var weeks []models.WeekGroup
	for _, date := range dates {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			log.Printf("Skipping bad date key %q: %v", date, err)
			continue
		}
		week := utils.WeekNumber(day, start)
		if len(weeks) == 0 || weeks[len(weeks)-1].Week != week {
			weeks = append(weeks, models.WeekGroup{Week: week})
		}
		last := &weeks[len(weeks)-1]
		last.Rows = append(last.Rows, rowFor(date))
	}
	return weeks
}
