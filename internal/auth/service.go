package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost used for new passwords.
var HashCost = bcrypt.DefaultCost

const sessionTokenBytes = 16

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash plain password to hashed password: %w", err)
	}
	return string(hashedPassword), nil
}

func ComparePasswords(hashedPwd string, plainPwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPwd), []byte(plainPwd))
	return err == nil
}

// NewSession opens a session for userId that expires lifetimeMonths after now.
// The token is 16 random bytes, hex encoded.
func NewSession(userId string, now time.Time, lifetimeMonths int) (Session, error) {
	tokenByte := make([]byte, sessionTokenBytes)
	if _, err := io.ReadFull(rand.Reader, tokenByte); err != nil {
		return Session{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	return Session{
		ID:        uuid.New().String(),
		Token:     hex.EncodeToString(tokenByte),
		CreatedAt: now,
		ExpireAt:  now.AddDate(0, lifetimeMonths, 0),
		UserID:    userId,
	}, nil
}
