package controllers

import (
	"context"
	"net/http"

	"kommunity/models"
	"kommunity/utils"
)

type Controller struct{}
type SearchController struct{}
type AttendanceController struct{}
type FinanceController struct{}
type PhotoController struct{}

type contextKey string

const sessionKey contextKey = "session"

// SessionMiddleware gates a route on a valid Bearer token. The token is
// parsed once here and the resulting session travels in the request
// context; handlers never touch the Authorization header themselves.
func (c Controller) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: err.Error()})
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, models.Session{UserID: userID})
		next(w, r.WithContext(ctx))
	}
}

// SessionFrom returns the session injected by SessionMiddleware.
func SessionFrom(r *http.Request) (models.Session, bool) {
	session, ok := r.Context().Value(sessionKey).(models.Session)
	return session, ok
}

// s3Resolver adapts the S3 helpers to the feed package's resolver.
type s3Resolver struct{}

func (s3Resolver) ResolveFolderURL(folder string) (string, error) {
	return utils.ResolveFolderURL(folder)
}
