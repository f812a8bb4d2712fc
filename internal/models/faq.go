package models

import (
	"time"
)

// DefaultFAQCategory is used when a FAQ is created without a category
const DefaultFAQCategory = "General"

// FAQ is a single question and answer entry
type FAQ struct {
	ID        string    `json:"_id" bson:"_id,omitempty"`
	Category  string    `json:"category" bson:"category"`
	Question  string    `json:"question" bson:"question"`
	Answer    string    `json:"answer" bson:"answer"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// FAQRequest is the JSON body for create and update
type FAQRequest struct {
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
