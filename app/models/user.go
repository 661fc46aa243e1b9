package models

// Identity is an authenticated user's session-bound profile. A nil
// *Identity means the session is anonymous.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Created string `json:"created"`
}
