package client

import "time"

// Client is a contact that properties may point at. Properties keep a
// plain client_id, so deleting a client leaves those ids dangling.
type Client struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	Phone        string    `gorm:"size:50;index" json:"phone"`
	Email        string    `gorm:"size:150" json:"email"`
	Organization string    `gorm:"size:150" json:"organization"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
