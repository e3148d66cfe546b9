package models

// Session is the authenticated identity for one request. It is created by
// the token middleware at sign-in verification and travels in the request
// context; nothing about it is kept in global state.
type Session struct {
	UserID string `json:"user_id"`
}

type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}
