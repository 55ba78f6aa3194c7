package credentials

import "time"

// Credential is the optional password of a user created through the setup
// form. Users created with a generated username have none.
type Credential struct {
	UserID       string
	PasswordHash string
	HashVersion  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
