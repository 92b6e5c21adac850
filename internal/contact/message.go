package contact

import (
	"time"

	"github.com/google/uuid"
)

// Message is one submitted contact request.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"message"`
	HashedIP  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage builds a message from trimmed form fields.
func NewMessage(f Fields, hashedIP string) Message {
	t := f.Trimmed()
	return Message{
		ID:        uuid.NewString(),
		Name:      t.Name,
		Email:     t.Email,
		Body:      t.Message,
		HashedIP:  hashedIP,
		CreatedAt: time.Now().UTC(),
	}
}
