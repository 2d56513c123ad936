package auth

import (
	"fmt"
	"regexp"
	"time"

	appErrors "github.com/fatali-fataliyev/smartsave/customErrors"
)

const (
	MAX_LENGTH_FULLNAME = 255
	MAX_LENGTH_USERNAME = 30
	MAX_LENGTH_EMAIL    = 255
	MIN_PASSWORD_LENGTH = 6
	MAX_PASSWORD_LENGTH = 72
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]{1,30}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9](\.?[a-zA-Z0-9_%+-])*@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}$`)
)

type User struct {
	ID             string
	UserName       string
	FullName       string
	PasswordHashed string
	Email          string
	CreatedAt      time.Time
}

type NewUser struct {
	UserName      string
	FullName      string
	PasswordPlain string
	Email         string
}

func (newUser NewUser) ValidateUserFields() error {
	if newUser.UserName == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Username cannot be empty!",
		}
	}
	if !usernameRegex.MatchString(newUser.UserName) {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Username contains wrong characters, example username: john_doe",
		}
	}
	if len(newUser.FullName) > MAX_LENGTH_FULLNAME {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Full name so long, maximum length is %d", MAX_LENGTH_FULLNAME),
		}
	}
	if newUser.Email == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Email cannot be empty!",
		}
	}
	if len(newUser.Email) > MAX_LENGTH_EMAIL {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Email so long, maximum length is %d", MAX_LENGTH_EMAIL),
		}
	}
	if !emailRegex.MatchString(newUser.Email) {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid email format, example valid email: john.doe@gmail.com",
		}
	}
	if len(newUser.PasswordPlain) < MIN_PASSWORD_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Password must be at least %d characters", MIN_PASSWORD_LENGTH),
		}
	}
	if len(newUser.PasswordPlain) > MAX_PASSWORD_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Password so long, maximum length is %d", MAX_PASSWORD_LENGTH),
		}
	}
	return nil
}

type Session struct {
	ID        string
	Token     string
	CreatedAt time.Time
	ExpireAt  time.Time
	UserID    string
}

// UserCredentialsPure identifies the user by Email when it is set,
// by UserName otherwise.
type UserCredentialsPure struct {
	UserName      string
	Email         string
	PasswordPlain string
}
