package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the stored account record. PasswordHash is a bcrypt hash and is
// never serialized to clients.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
