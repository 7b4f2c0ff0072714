package entity

import "time"

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Name     string `json:"name,omitempty" firestore:"name,omitempty"`
	PhotoURL string `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	Role     string `json:"role" firestore:"role"` // "user", "admin"

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
