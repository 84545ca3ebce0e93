package entity

// Identity is the set of claims carried by a session token.
type Identity struct {
	UserID   string
	Email    string
	Username string
}
