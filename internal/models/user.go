package models

import (
	"time"

	"github.com/google/uuid"
)

// User owns every record in the store; its ID is the owner filter on all queries.
type User struct {
	ID        uuid.UUID `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
