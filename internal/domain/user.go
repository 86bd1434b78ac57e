package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common user validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrNameTooLong         = errors.New("name must be at most 100 characters long")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the application.
// It contains essential user information and authentication details.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	IsAdmin        bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with the given name, email and password.
// It generates a new UUID for the user ID and sets the creation timestamp.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(name, email, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Password:  password, // Plaintext password - must be hashed before storage
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyName
	}
	if len(u.Name) > 100 {
		return ErrNameTooLong
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	// During user creation we validate the provided plaintext password.
	// Existing users loaded from the database carry only a hash.
	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		// bcrypt truncates input beyond 72 bytes
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
// Full RFC 5322 validation is out of scope; the address is only
// used as a login identifier.
func validateEmailFormat(email string) bool {
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 { // minimum would be "a.b"
		return false
	}

	dotIndex := strings.Index(domainPart, ".")
	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
