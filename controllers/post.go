package controllers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"kommunity/feed"
	"kommunity/models"
	"kommunity/store"
	"kommunity/utils"
)

// PostController owns the shared posts document. It keeps one in-memory
// copy, loaded lazily and patched after every successful write, so the
// feed never re-reads the whole document per request.
type PostController struct {
	mu    sync.Mutex
	cache models.PostDocument
	docs  *store.DocumentStore
}

func NewPostController(docs *store.DocumentStore) *PostController {
	return &PostController{docs: docs}
}

// document returns the cached posts document, loading it on first use.
// Callers must hold c.mu.
func (c *PostController) document() (models.PostDocument, error) {
	if c.cache == nil {
		doc, err := c.docs.Get(store.PostsDocument)
		if err != nil {
			return nil, err
		}
		c.cache = doc
	}
	return c.cache, nil
}

type createPostRequest struct {
	Caption   string `json:"caption"`
	Category  string `json:"category"`
	Volunteer bool   `json:"volunteer"`
	Image     string `json:"image"`
}

func (c *PostController) CreatePost(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFrom(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}

		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body."})
			return
		}
		if req.Caption == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Caption is required."})
			return
		}

		author, err := fetchUser(db, session.UserID)
		if err != nil {
			log.Printf("Error fetching author %s: %v", session.UserID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}
		if author.Name == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Author profile is incomplete."})
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		doc, err := c.document()
		if err != nil {
			log.Printf("Error loading posts document: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}

		date := time.Now().Format("2006-01-02")
		postID := utils.GenerateRandomID()
		if postID == "" {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}
		if _, exists := store.GetPost(doc, date, postID); exists {
			// The 10-char id has no collision guarantee; refuse rather
			// than overwrite the colliding post
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Please try again."})
			return
		}

		post := models.Post{
			Caption:      req.Caption,
			AuthorID:     author.ID,
			AuthorName:   author.Name,
			AuthorAvatar: author.AvatarURL,
			Image:        req.Image,
			Available:    true,
			Volunteer:    req.Volunteer,
			Category:     req.Category,
			Created:      &models.Timestamp{Seconds: time.Now().Unix()},
		}

		patch := store.Patch{
			Doc:   store.PostsDocument,
			Path:  store.FieldPath(date, postID),
			Value: post,
		}
		if err := c.docs.Apply(patch); err != nil {
			log.Printf("Error writing post %s.%s: %v", date, postID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Could not save post."})
			return
		}
		store.SetPost(doc, date, postID, post)

		utils.ResponseJSON(w, map[string]interface{}{
			"date":    date,
			"post_id": postID,
			"post":    post,
		})
	}
}

func (c *PostController) ToggleAvailability() http.HandlerFunc {
	return c.toggle("available")
}

func (c *PostController) ToggleVolunteer() http.HandlerFunc {
	return c.toggle("volunteer")
}

// toggle flips one boolean of one post via a field-path patch. The cache
// is mutated first so readers see the flip immediately; if the backend
// write then fails there is no rollback.
func (c *PostController) toggle(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFrom(r); !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}

		vars := mux.Vars(r)
		date, postID := vars["date"], vars["id"]

		c.mu.Lock()
		defer c.mu.Unlock()

		doc, err := c.document()
		if err != nil {
			log.Printf("Error loading posts document: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}

		post, ok := store.GetPost(doc, date, postID)
		if !ok {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Post not found."})
			return
		}

		var value bool
		switch field {
		case "available":
			post.Available = !post.Available
			value = post.Available
		case "volunteer":
			post.Volunteer = !post.Volunteer
			value = post.Volunteer
		}
		store.SetPost(doc, date, postID, post)

		patch := store.Patch{
			Doc:   store.PostsDocument,
			Path:  store.FieldPath(date, postID, field),
			Value: value,
		}
		if err := c.docs.Apply(patch); err != nil {
			log.Printf("Error toggling %s on %s.%s: %v", field, date, postID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Could not update post."})
			return
		}

		utils.ResponseJSON(w, map[string]interface{}{field: value})
	}
}

func (c *PostController) DeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFrom(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}

		vars := mux.Vars(r)
		date, postID := vars["date"], vars["id"]

		c.mu.Lock()
		defer c.mu.Unlock()

		doc, err := c.document()
		if err != nil {
			log.Printf("Error loading posts document: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}

		post, ok := store.GetPost(doc, date, postID)
		if !ok {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Post not found."})
			return
		}
		if post.AuthorID != session.UserID {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Not your post."})
			return
		}

		patch := store.Patch{
			Doc:   store.PostsDocument,
			Path:  store.FieldPath(date, postID),
			Value: store.Remove,
		}
		if err := c.docs.Apply(patch); err != nil {
			log.Printf("Error deleting post %s.%s: %v", date, postID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Could not delete post."})
			return
		}
		// Backend keeps an empty bucket object around; only the cache
		// drops it
		store.RemovePost(doc, date, postID)

		utils.ResponseJSON(w, map[string]string{"message": "Post deleted."})
	}
}

// GetFeed returns the visible prefix of the flattened feed. ?loads=k
// reveals min(5+5k, N) items, mirroring k load-more clicks.
func (c *PostController) GetFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFrom(r); !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}
		c.respondFeed(w, r, "")
	}
}

// GetUserFeed is the directory view of one user's posts; same aggregation
// narrowed to a single author.
func (c *PostController) GetUserFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFrom(r); !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}
		c.respondFeed(w, r, mux.Vars(r)["id"])
	}
}

func (c *PostController) respondFeed(w http.ResponseWriter, r *http.Request, authorID string) {
	loads, _ := strconv.Atoi(r.URL.Query().Get("loads"))

	c.mu.Lock()
	doc, err := c.document()
	if err != nil {
		c.mu.Unlock()
		log.Printf("Error loading posts document: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
		return
	}
	items := feed.Flatten(doc)
	c.mu.Unlock()

	if authorID != "" {
		items = feed.ByAuthor(items, authorID)
	}

	pager := feed.PagerAfter(loads)
	visible := pager.Slice(items)
	failed := feed.ResolveImages(visible, s3Resolver{})

	resp := map[string]interface{}{
		"total":   len(items),
		"visible": len(visible),
		"items":   visible,
	}
	if len(failed) > 0 {
		resp["unresolved"] = failed
	}
	utils.ResponseJSON(w, resp)
}
