package model

import "time"

type Notification struct {
	ID          string    `json:"_id" bson:"_id"`
	RecipientID int64     `json:"user" bson:"recipient_id"`
	Content     string    `json:"content" bson:"content"`
	Read        bool      `json:"read" bson:"read"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}
