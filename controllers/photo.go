package controllers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"kommunity/models"
	"kommunity/store"
	"kommunity/utils"
)

const maxUploadSize = 10 << 20 // 10 MB

// UploadAvatar stores a new profile photo in the folder named by the
// viewer's id and points avatar_url at it.
func (c PhotoController) UploadAvatar(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFrom(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid form data."})
			return
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Avatar file is required."})
			return
		}
		defer file.Close()

		fileName := fmt.Sprintf("avatar-%d-%s%s", time.Now().Unix(), uuid.NewString(), filepath.Ext(header.Filename))
		url, err := utils.UploadFileToFolder(file, session.UserID, fileName)
		if err != nil {
			log.Printf("Error uploading avatar for %s: %v", session.UserID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Could not upload avatar."})
			return
		}

		_, err = db.Exec("UPDATE users SET avatar_url = ? WHERE id = ?", url, session.UserID)
		if err != nil {
			log.Printf("Error saving avatar url for %s: %v", session.UserID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Could not save avatar."})
			return
		}

		utils.ResponseJSON(w, map[string]string{"avatar_url": url})
	}
}

// UploadPostImage stores a photo in the folder named by the post id so
// the feed can resolve it later. Only the post's author may attach one.
func (c *PostController) UploadPostImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFrom(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}

		vars := mux.Vars(r)
		date, postID := vars["date"], vars["id"]

		c.mu.Lock()
		doc, err := c.document()
		if err != nil {
			c.mu.Unlock()
			log.Printf("Error loading posts document: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}
		post, found := store.GetPost(doc, date, postID)
		c.mu.Unlock()

		if !found {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Post not found."})
			return
		}
		if post.AuthorID != session.UserID {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Not your post."})
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid form data."})
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Image file is required."})
			return
		}
		defer file.Close()

		fileName := fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.NewString(), filepath.Ext(header.Filename))
		url, err := utils.UploadFileToFolder(file, postID, fileName)
		if err != nil {
			log.Printf("Error uploading image for post %s.%s: %v", date, postID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Could not upload image."})
			return
		}

		utils.ResponseJSON(w, map[string]string{"image_url": url})
	}
}

// ResolvePhoto resolves the first object of a storage folder. A missing
// folder is a 404, never a page failure; the client shows a placeholder.
func (c PhotoController) ResolvePhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFrom(r); !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}

		folder := mux.Vars(r)["folder"]
		url, err := utils.ResolveFolderURL(folder)
		if err != nil {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "No photo found."})
			return
		}
		utils.ResponseJSON(w, map[string]string{"url": url})
	}
}
