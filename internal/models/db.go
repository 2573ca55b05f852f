package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a writer account in the database.
type User struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Prompt represents a stored prompt template. Content is held in the codec's
// ciphertext format once it has passed through the prompt service; reads
// return it verbatim unless routed through the decrypting reader.
type Prompt struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	Title       string     `db:"title"`
	Type        PromptType `db:"type"`
	Content     string     `db:"content"`
	Description *string    `db:"description"` // Pointer for nullable text
	Examples    []string   `db:"examples"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
