package controllers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kommunity/models"
	"kommunity/utils"
)

const defaultAvatarURL = "https://kommunity-media.s3.ap-southeast-1.amazonaws.com/defaults/avatar.jpg"

func (c Controller) Signup(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user models.User
		var error models.Error

		err := json.NewDecoder(r.Body).Decode(&user)
		if err != nil {
			error.Message = "Invalid request body."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}

		// Проверяем обязательные поля до обращения к базе
		if user.Name == "" {
			error.Message = "Name is required."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}
		if user.Email == "" && user.Phone == "" {
			error.Message = "Email or phone is required."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}
		if user.Password == "" {
			error.Message = "Password is required."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}

		if user.AvatarURL == "" {
			user.AvatarURL = defaultAvatarURL
		}

		var isEmail bool
		if user.Email != "" && strings.Contains(user.Email, "@") {
			isEmail = true
		} else if user.Phone != "" {
			isEmail = false
		} else {
			error.Message = "Invalid email or phone format."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}

		// Проверяем, существует ли уже email или телефон в базе
		var existingID string
		var query, identifier string
		if isEmail {
			query = "SELECT id FROM users WHERE email = ?"
			identifier = user.Email
		} else {
			query = "SELECT id FROM users WHERE phone = ?"
			identifier = user.Phone
		}

		err = db.QueryRow(query, identifier).Scan(&existingID)
		if err == nil {
			error.Message = "Email or phone already exists."
			utils.RespondWithError(w, http.StatusConflict, error)
			return
		} else if err != sql.ErrNoRows {
			log.Printf("Error checking existing user: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}

		hash, err := utils.HashPassword(user.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}

		// Identity key is assigned once here and never changes
		user.ID = uuid.NewString()

		skills, _ := json.Marshal([]string{})
		attendance, _ := json.Marshal(map[string]models.DayRecord{})
		transactions, _ := json.Marshal(map[string]models.Transaction{})

		query = `INSERT INTO users
			(id, name, email, phone, password, social_link, avatar_url, adviser, level, schedule, gender, skills, attendance, tuition, paid, due, transactions)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0, ?)`
		_, err = db.Exec(query,
			user.ID, user.Name, nullable(user.Email), nullable(user.Phone), hash,
			user.SocialLink, user.AvatarURL, user.Adviser, user.Level,
			user.Schedule, user.Gender, skills, attendance, transactions)
		if err != nil {
			log.Printf("Error inserting user: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}

		utils.ResponseJSON(w, map[string]string{
			"message": "User registered successfully.",
			"id":      user.ID,
		})
	}
}

func (c Controller) Login(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds models.User
		var error models.Error

		err := json.NewDecoder(r.Body).Decode(&creds)
		if err != nil {
			error.Message = "Invalid request body."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}

		var query, identifier string
		if creds.Email != "" {
			query = "SELECT id, name, email, phone, password FROM users WHERE email = ?"
			identifier = creds.Email
		} else if creds.Phone != "" {
			query = "SELECT id, name, email, phone, password FROM users WHERE phone = ?"
			identifier = creds.Phone
		} else {
			error.Message = "Email or phone is required."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}

		var user models.User
		var email, phone sql.NullString
		var hashedPassword string
		err = db.QueryRow(query, identifier).Scan(&user.ID, &user.Name, &email, &phone, &hashedPassword)
		if err == sql.ErrNoRows {
			error.Message = "User not found."
			utils.RespondWithError(w, http.StatusNotFound, error)
			return
		}
		if err != nil {
			log.Printf("Error querying user: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}
		user.Email = email.String
		user.Phone = phone.String

		err = bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(creds.Password))
		if err != nil {
			error.Message = "Invalid password."
			utils.RespondWithError(w, http.StatusUnauthorized, error)
			return
		}

		accessToken, err := utils.GenerateToken(user, 24*time.Hour)
		if err != nil {
			log.Printf("Error generating token: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(user, 7*24*time.Hour)
		if err != nil {
			log.Printf("Error generating refresh token: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}

		utils.ResponseJSON(w, models.TokenPair{
			Token:        accessToken,
			RefreshToken: refreshToken,
		})
	}
}

func (c Controller) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.VerifyToken(r); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: err.Error()})
		return
	}

	// Tokens are stateless; clearing the cookie mirror ends the session
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})

	utils.ResponseJSON(w, map[string]string{"message": "Successfully logged out"})
}

func (c Controller) GetMe(db *sql.DB) http.HandlerFunc {
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

		user.Password = ""
		utils.ResponseJSON(w, user)
	}
}

// fetchUser loads one full user record, parsing the JSON columns into
// their typed maps at the boundary.
func fetchUser(db *sql.DB, userID string) (models.User, error) {
	var user models.User
	var email, phone, socialLink, avatarURL, adviser, level, schedule, gender sql.NullString
	var skills, attendance, transactions []byte

	query := `SELECT id, name, email, phone, password, social_link, avatar_url, adviser, level, schedule, gender,
		skills, attendance, tuition, paid, due, transactions FROM users WHERE id = ?`
	err := db.QueryRow(query, userID).Scan(
		&user.ID, &user.Name, &email, &phone, &user.Password,
		&socialLink, &avatarURL, &adviser, &level, &schedule, &gender,
		&skills, &attendance, &user.Tuition, &user.Paid, &user.Due, &transactions)
	if err != nil {
		return user, err
	}

	user.Email = email.String
	user.Phone = phone.String
	user.SocialLink = socialLink.String
	user.AvatarURL = avatarURL.String
	user.Adviser = adviser.String
	user.Level = level.String
	user.Schedule = schedule.String
	user.Gender = gender.String

	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &user.Skills); err != nil {
			log.Printf("Bad skills JSON for user %s: %v", userID, err)
		}
	}
	if len(attendance) > 0 {
		if err := json.Unmarshal(attendance, &user.Attendance); err != nil {
			log.Printf("Bad attendance JSON for user %s: %v", userID, err)
		}
	}
	if len(transactions) > 0 {
		if err := json.Unmarshal(transactions, &user.Transactions); err != nil {
			log.Printf("Bad transactions JSON for user %s: %v", userID, err)
		}
	}
	return user, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
