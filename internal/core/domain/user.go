package domain

import "time"

// User is the owner profile the worker needs for routing notifications.
// Account management lives in the main API service.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
