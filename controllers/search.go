package controllers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"kommunity/models"
	"kommunity/utils"
)

// SearchUsers loads the whole directory, drops the viewer, and applies a
// case-insensitive substring filter on display names. Avatar resolution
// is opportunistic: a missing or denied folder just leaves the stored
// avatar URL in place.
func (c SearchController) SearchUsers(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFrom(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "No session"})
			return
		}

		query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

		rows, err := db.Query("SELECT id, name, avatar_url, level, skills, social_link FROM users")
		if err != nil {
			log.Printf("Error querying users: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}
		defer rows.Close()

		var results []models.DirectoryEntry
		for rows.Next() {
			var entry models.DirectoryEntry
			var avatarURL, level, socialLink sql.NullString
			var skills []byte
			if err := rows.Scan(&entry.ID, &entry.Name, &avatarURL, &level, &skills, &socialLink); err != nil {
				log.Printf("Error scanning user row: %v", err)
				continue
			}
			if entry.ID == session.UserID {
				continue
			}
			if query != "" && !strings.Contains(strings.ToLower(entry.Name), query) {
				continue
			}
			entry.AvatarURL = avatarURL.String
			entry.Level = level.String
			entry.SocialLink = socialLink.String
			if len(skills) > 0 {
				if err := json.Unmarshal(skills, &entry.Skills); err != nil {
					log.Printf("Bad skills JSON for user %s: %v", entry.ID, err)
				}
			}
			results = append(results, entry)
		}
		if err := rows.Err(); err != nil {
			log.Printf("Error iterating users: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
			return
		}

		// One lookup per result, all joined before responding
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(entry *models.DirectoryEntry) {
				defer wg.Done()
				url, err := utils.ResolveFolderURL(entry.ID)
				if err == nil {
					entry.AvatarURL = url
				}
			}(&results[i])
		}
		wg.Wait()

		utils.ResponseJSON(w, map[string]interface{}{
			"count": len(results),
			"users": results,
		})
	}
}
