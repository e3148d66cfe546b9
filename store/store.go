package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"kommunity/models"
)

// PostsDocument is the name of the single shared document all post
// buckets live in.
const PostsDocument = "posts"

type removeSentinel struct{}

// Remove is the patch value that deletes the field at the patch path
// instead of writing one.
var Remove removeSentinel

// Patch targets one nested field of a document by dotted path. The write
// never touches sibling fields; that partial-update contract is what the
// post layer is built on.
type Patch struct {
	Doc   string
	Path  string
	Value interface{}
}

type DocumentStore struct {
	db *sql.DB
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Ensure creates the named document with an empty body if it does not
// exist yet. Called once at boot for the posts document.
func (s *DocumentStore) Ensure(name string) error {
	_, err := s.db.Exec("INSERT IGNORE INTO documents (name, body) VALUES (?, '{}')", name)
	return err
}

// Get loads and parses the whole posts document.
func (s *DocumentStore) Get(name string) (models.PostDocument, error) {
	var body []byte
	err := s.db.QueryRow("SELECT body FROM documents WHERE name = ?", name).Scan(&body)
	if err == sql.ErrNoRows {
		return models.PostDocument{}, nil
	}
	if err != nil {
		return nil, err
	}
	var doc models.PostDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("document %s is not valid JSON: %v", name, err)
	}
	if doc == nil {
		doc = models.PostDocument{}
	}
	return doc, nil
}

// Apply interprets one patch against the stored document.
func (s *DocumentStore) Apply(p Patch) error {
	if _, ok := p.Value.(removeSentinel); ok {
		_, err := s.db.Exec(
			"UPDATE documents SET body = JSON_REMOVE(body, ?) WHERE name = ?",
			JSONPath(p.Path), p.Doc)
		return err
	}
	val, err := json.Marshal(p.Value)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"UPDATE documents SET body = JSON_SET(body, ?, CAST(? AS JSON)) WHERE name = ?",
		JSONPath(p.Path), string(val), p.Doc)
	return err
}

// JSONPath turns a dotted field path into a MySQL JSON path. Every
// segment is quoted because bucket keys contain dashes.
func JSONPath(path string) string {
	var b strings.Builder
	b.WriteString("$")
	for _, seg := range strings.Split(path, ".") {
		b.WriteString(`."`)
		b.WriteString(seg)
		b.WriteString(`"`)
	}
	return b.String()
}

// FieldPath joins key segments into the dotted form Patch expects.
func FieldPath(segments ...string) string {
	return strings.Join(segments, ".")
}
