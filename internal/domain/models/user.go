package models

import "time"

type User struct {
	ID                string    `db:"id" json:"id"`
	Email             string    `db:"email" json:"email"`
	Name              string    `db:"name" json:"name"`
	ProfilePictureURL *string   `db:"profile_picture_url" json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// UserRef is the public slice of a user embedded in other resources.
type UserRef struct {
	ID                string  `db:"id" json:"id"`
	Name              string  `db:"name" json:"name"`
	Email             string  `db:"email" json:"email"`
	ProfilePictureURL *string `db:"profile_picture_url" json:"profile_picture_url,omitempty"`
}

type Session struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Profile is what an identity provider hands over on sign-in.
type Profile struct {
	Email             string
	Name              string
	ProfilePictureURL string
}
