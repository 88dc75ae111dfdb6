package models

import (
	"time"
)

// ContactStatusNew marks a submission nobody has handled yet
const ContactStatusNew = "new"

// ContactMessage is a stored contact-form submission
type ContactMessage struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ContactRequest is the public contact-form payload
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// MinContactMessageLength is the shortest accepted message
const MinContactMessageLength = 10
