package domain

import "time"

// Admin is an administrator account. All admins are equal; there is no
// role hierarchy beyond holding an account.
type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
