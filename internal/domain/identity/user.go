package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasNumber       = regexp.MustCompile(`[0-9]`)
)

// User is a member of the sales team. Users are lead assignees and note authors.
type User struct {
	shared.BaseAggregateRoot
	Name         string
	Username     string
	Email        string
	PasswordHash string
	TeamID       *int64
	Active       bool
	LastLoginAt  *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(name, username, password string) (*User, error) {
	name = strings.TrimSpace(name)
	username = strings.ToLower(strings.TrimSpace(username))

	verr := &shared.ValidationError{}
	if msg := validateName(name); msg != "" {
		verr.Add("name", msg)
	}
	if msg := validateUsername(username); msg != "" {
		verr.Add("username", msg)
	}
	if msg := validatePassword(password); msg != "" {
		verr.Add("password", msg)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Username:          username,
		PasswordHash:      hash,
		Active:            true,
	}, nil
}

// Rename sets the user's display name
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if msg := validateName(name); msg != "" {
		return shared.NewValidationError("name", msg)
	}

	u.Name = name
	u.touch()
	return nil
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && (len(email) > 200 || !emailPattern.MatchString(email)) {
		return shared.NewValidationError("email", "invalid email format")
	}

	u.Email = email
	u.touch()
	return nil
}

// SetTeam places the user in a team, or removes team membership when nil
func (u *User) SetTeam(teamID *int64) {
	u.TeamID = teamID
	u.touch()
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if msg := validatePassword(password); msg != "" {
		return shared.NewValidationError("password", msg)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = hash
	u.touch()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Activate marks the user active
func (u *User) Activate() error {
	if u.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Active = true
	u.touch()
	u.AddDomainEvent(NewUserStatusChangedEvent(u))
	return nil
}

// Deactivate marks the user inactive. Inactive users cannot log in or receive leads.
func (u *User) Deactivate() error {
	if !u.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already inactive")
	}
	u.Active = false
	u.touch()
	u.AddDomainEvent(NewUserStatusChangedEvent(u))
	return nil
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// CanLogin reports whether the user may authenticate
func (u *User) CanLogin() bool {
	return u.Active && u.PasswordHash != ""
}

// DisplayName returns the name, falling back to the username
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

func (u *User) touch() {
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

func validateName(name string) string {
	if name == "" {
		return "is required"
	}
	if len(name) > 200 {
		return "cannot exceed 200 characters"
	}
	return ""
}

func validateUsername(username string) string {
	if username == "" {
		return "is required"
	}
	if len(username) < 3 {
		return "must be at least 3 characters"
	}
	if len(username) > 100 {
		return "cannot exceed 100 characters"
	}
	if !usernamePattern.MatchString(username) {
		return "can only contain letters, numbers, underscores, hyphens, and dots"
	}
	return ""
}

func validatePassword(password string) string {
	if password == "" {
		return "is required"
	}
	if len(password) < 8 {
		return "must be at least 8 characters"
	}
	if len(password) > 72 {
		return "cannot exceed 72 characters"
	}
	if !hasLetter.MatchString(password) || !hasNumber.MatchString(password) {
		return "must contain at least one letter and one number"
	}
	return ""
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
