package models

// User represents a customer account. The user list is fixed at process
// start, there is no signup flow.
type User struct {
	ID           int64  `json:"userId"`
	Username     string `json:"username"`
	PasswordHash []byte `json:"-"`
}

// Principal is the caller identity extracted from a verified bearer token.
type Principal struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}
