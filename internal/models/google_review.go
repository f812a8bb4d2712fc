package models

// GoogleReview is a review synced from the Google Places API.
// GoogleReviewID is derived from the review publish time and is unique.
type GoogleReview struct {
	ID             string  `json:"_id" bson:"_id,omitempty"`
	GoogleReviewID string  `json:"googleReviewId" bson:"googleReviewId"`
	AuthorName     string  `json:"authorName" bson:"authorName"`
	Rating         float64 `json:"rating" bson:"rating"`
	Content        string  `json:"content" bson:"content"`
	ProfilePhoto   string  `json:"profilePhoto" bson:"profilePhoto"`
	ReviewDate     string  `json:"reviewDate" bson:"reviewDate"` // YYYY-MM-DD
	IsSelected     bool    `json:"isSelected" bson:"isSelected"`
}

// ReviewDateLayout is the calendar date format stored in ReviewDate
const ReviewDateLayout = "2006-01-02"

// ReviewSelectionRequest is the body of the admin selection endpoint
type ReviewSelectionRequest struct {
	SelectedIDs []string `json:"selectedIds"`
}
