package connect

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"connect-service/internal/auth"
	"connect-service/internal/auth/credentials"
	"connect-service/internal/auth/profile"
)

const (
	msgFormInvalid   = "Please correct the errors below."
	msgUsernameTaken = "This username is already taken."
)

var msgPasswordTooLong = fmt.Sprintf("Ensure this value has at most %d bytes.", credentials.MaxPasswordBytes)

// Form is the setup step's account form.
type Form interface {
	// Bind reads and validates the submitted request. A rejected form
	// returns an error of kind auth.ErrFormValidation and carries its
	// field errors.
	Bind(r *http.Request) error

	// Values are the values to render, never including secrets.
	Values() map[string]string
	Errors() map[string]string

	// Fields lists the rendered inputs in order.
	Fields() []string

	// Save persists the account for signup. A taken username is reported
	// as a field error of kind auth.ErrFormValidation.
	Save(ctx context.Context, repo profile.Repository, signup *auth.Signup) (*auth.User, *auth.Profile, error)
}

// FormFactory builds a form pre-filled with initial.
type FormFactory func(initial map[string]string) Form

type userFields struct {
	Username string `form:"username" binding:"required,max=32"`
	Email    string `form:"email" binding:"omitempty,email,max=254"`
	Password string `form:"password" binding:"omitempty,min=8,max=72"`
}

type usernameFields struct {
	Username string `form:"username" binding:"required,max=32"`
}

// UserForm asks for a username, and unless built with NewUsernameForm,
// an optional email and password.
type UserForm struct {
	full   bool
	values map[string]string
	errors map[string]string
	fields userFields
}

func NewUserForm(initial map[string]string) Form {
	return newUserForm(initial, true)
}

// NewUsernameForm asks for the username only.
func NewUsernameForm(initial map[string]string) Form {
	return newUserForm(initial, false)
}

func newUserForm(initial map[string]string, full bool) *UserForm {
	values := make(map[string]string, len(initial))
	maps.Copy(values, initial)
	return &UserForm{
		full:   full,
		values: values,
		errors: map[string]string{},
	}
}

func (f *UserForm) Fields() []string {
	if f.full {
		return []string{"username", "email", "password"}
	}
	return []string{"username"}
}

func (f *UserForm) Values() map[string]string { return f.values }

func (f *UserForm) Errors() map[string]string { return f.errors }

func (f *UserForm) Bind(r *http.Request) error {
	var err error
	if f.full {
		err = binding.Form.Bind(r, &f.fields)
	} else {
		var u usernameFields
		err = binding.Form.Bind(r, &u)
		f.fields = userFields{Username: u.Username}
	}

	f.values["username"] = f.fields.Username
	if f.full {
		f.values["email"] = f.fields.Email
	}

	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("bind setup form: %w", err)
		}
		for _, fe := range verrs {
			f.errors[strings.ToLower(fe.Field())] = fieldMessage(fe)
		}
		return auth.WrapError(auth.ErrFormValidation, msgFormInvalid, err)
	}

	// max=72 counts runes; bcrypt counts bytes
	if len(f.fields.Password) > credentials.MaxPasswordBytes {
		f.errors["password"] = msgPasswordTooLong
		return auth.WrapError(auth.ErrFormValidation, msgFormInvalid, credentials.ErrPasswordTooLong)
	}

	name, err := CanonicalUsername(f.fields.Username)
	if err != nil {
		f.errors["username"] = err.Error()
		return auth.WrapError(auth.ErrFormValidation, msgFormInvalid, err)
	}
	f.fields.Username = name
	f.values["username"] = name

	return nil
}

func (f *UserForm) Save(ctx context.Context, repo profile.Repository, signup *auth.Signup) (*auth.User, *auth.Profile, error) {
	taken, err := repo.UsernameExists(ctx, f.fields.Username)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, f.usernameTaken()
	}

	user := signup.User
	user.Username = f.fields.Username
	if email := strings.TrimSpace(f.fields.Email); email != "" && !strings.EqualFold(email, signup.User.Email) {
		// a changed address is unverified
		user.Email = email
		user.EmailVerified = false
	}

	u, p, err := repo.CreateAccount(ctx, profile.NewAccount{
		User:     user,
		Profile:  signup.Profile,
		Password: f.fields.Password,
	})
	if errors.Is(err, auth.ErrUsernameTaken) {
		return nil, nil, f.usernameTaken()
	}
	return u, p, err
}

func (f *UserForm) usernameTaken() error {
	f.errors["username"] = msgUsernameTaken
	return auth.WrapError(auth.ErrFormValidation, msgFormInvalid, auth.ErrUsernameTaken)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	default:
		return "Enter a valid value."
	}
}
