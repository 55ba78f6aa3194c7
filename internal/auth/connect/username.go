package connect

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"connect-service/internal/auth"
)

const maxUsernameLength = 32

var (
	ErrEmptyUsername   = errors.New("username is required")
	ErrInvalidUsername = errors.New("username must be 3-32 lowercase letters, digits, dots, dashes or underscores")

	usernamePattern = regexp.MustCompile(`^[a-z0-9_.\-]{3,32}$`)
	usernameStrip   = regexp.MustCompile(`[^a-z0-9_.\-]+`)
)

// CanonicalUsername trims and lowercases s and checks the username format.
func CanonicalUsername(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", ErrEmptyUsername
	}
	if !usernamePattern.MatchString(s) {
		return "", ErrInvalidUsername
	}
	return s, nil
}

// UsernameFunc proposes a username for an unsaved signup.
type UsernameFunc func(signup *auth.Signup) string

// UUIDUsername ignores the identity and returns a random username.
func UUIDUsername(*auth.Signup) string {
	return "user-" + randomHex(12)
}

// IdentityUsername derives a username from the provider's preferred
// username or the email local part, falling back to UUIDUsername.
func IdentityUsername(signup *auth.Signup) string {
	candidates := []string{signup.User.Username}
	if local, _, ok := strings.Cut(signup.User.Email, "@"); ok {
		candidates = append(candidates, local)
	}

	for _, c := range candidates {
		c = usernameStrip.ReplaceAllString(strings.ToLower(c), "")
		if len(c) > maxUsernameLength {
			c = c[:maxUsernameLength]
		}
		if name, err := CanonicalUsername(c); err == nil {
			return name
		}
	}

	return UUIDUsername(signup)
}

// WithSuffix appends a short random suffix to base, keeping the result
// inside the username length limit.
func WithSuffix(base string) string {
	suffix := "-" + randomHex(6)
	if len(base)+len(suffix) > maxUsernameLength {
		base = base[:maxUsernameLength-len(suffix)]
	}
	return base + suffix
}

func randomHex(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
