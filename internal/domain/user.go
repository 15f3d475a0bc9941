package domain

// User is resolved from the credential store during login and never persisted.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CurrentUser is the identity carried by a verified bearer token.
type CurrentUser struct {
	ID string `json:"id"`
}
