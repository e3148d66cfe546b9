package models

// User is a portal member. Attendance, Skills and Transactions are stored
// as JSON columns and may be sparse: a missing date means no record.
type User struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email,omitempty"`
	Phone        string                 `json:"phone,omitempty"`
	Password     string                 `json:"password,omitempty"`
	SocialLink   string                 `json:"social_link,omitempty"`
	AvatarURL    string                 `json:"avatar_url,omitempty"`
	Adviser      string                 `json:"adviser,omitempty"`
	Level        string                 `json:"level,omitempty"`
	Schedule     string                 `json:"schedule,omitempty"`
	Gender       string                 `json:"gender,omitempty"`
	Skills       []string               `json:"skills,omitempty"`
	Attendance   map[string]DayRecord   `json:"attendance,omitempty"`
	Tuition      float64                `json:"tuition,omitempty"`
	Paid         float64                `json:"paid,omitempty"`
	Due          float64                `json:"due,omitempty"`
	Transactions map[string]Transaction `json:"transactions,omitempty"`
}

// DayRecord holds one day's check-in/check-out, unix seconds.
type DayRecord struct {
	CheckIn  int64 `json:"check_in"`
	CheckOut int64 `json:"check_out,omitempty"`
}

type Transaction struct {
	Amount     float64 `json:"amount"`
	RecordedAt int64   `json:"recorded_at"`
}

// DirectoryEntry is what search returns: the public slice of a user.
type DirectoryEntry struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	AvatarURL  string   `json:"avatar_url,omitempty"`
	Level      string   `json:"level,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	SocialLink string   `json:"social_link,omitempty"`
}
