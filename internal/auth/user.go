package auth

import "time"

type User struct {
	ID                string
	Username          string
	Email             string
	EmailVerified     bool
	IsActive          bool
	HasUsablePassword bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Profile links one local user to one remote identity.
type Profile struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

func (p *Profile) LookupKeys() LookupKeys {
	return LookupKeys{
		Provider:       p.Provider,
		ProviderUserID: p.ProviderUserID,
	}
}

// UnsavedUser is a local account that exists only in the pending session
// until the setup step persists it.
type UnsavedUser struct {
	Username      string `json:"username,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
}

// UnsavedProfile is the not yet persisted link to a remote identity.
type UnsavedProfile struct {
	Provider       string `json:"provider"`
	ProviderUserID string `json:"provider_user_id"`
}

func (p UnsavedProfile) LookupKeys() LookupKeys {
	return LookupKeys{
		Provider:       p.Provider,
		ProviderUserID: p.ProviderUserID,
	}
}

// Signup groups the unsaved user, unsaved profile and the completed client
// between the decision flow and the setup step.
type Signup struct {
	User    UnsavedUser    `json:"user"`
	Profile UnsavedProfile `json:"profile"`
	Client  ClientState    `json:"client"`
}

// NewSignup builds the unsaved pair for a completed client.
func NewSignup(client ClientState) *Signup {
	s := &Signup{Client: client}
	if id := client.Identity; id != nil {
		s.User = UnsavedUser{
			Username:      id.Username,
			Email:         id.Email,
			EmailVerified: id.EmailVerified,
		}
		s.Profile = UnsavedProfile{
			Provider:       id.Provider,
			ProviderUserID: id.ProviderUserID,
		}
	}
	return s
}
