package models

import (
	"time"
)

// CommunityPage is the marketing landing page for one community.
// Pages are keyed by Community for upserts and looked up publicly by Slug.
type CommunityPage struct {
	ID             string         `json:"_id" bson:"_id,omitempty"`
	Community      string         `json:"community" bson:"community"`
	Slug           string         `json:"slug" bson:"slug"`
	Tagline        string         `json:"tagline,omitempty" bson:"tagline,omitempty"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty"`
	Schools        string         `json:"schools,omitempty" bson:"schools,omitempty"`
	Safety         string         `json:"safety,omitempty" bson:"safety,omitempty"`
	Commute        Commute        `json:"commute" bson:"commute"`
	KeyFeatures    []string       `json:"keyFeatures" bson:"keyFeatures"`
	MarketSnapshot MarketSnapshot `json:"marketSnapshot" bson:"marketSnapshot"`
	SEO            SEO            `json:"seo" bson:"seo"`
	HeroImage      string         `json:"heroImage,omitempty" bson:"heroImage,omitempty"`
	HeroImageURL   string         `json:"heroImageURL,omitempty" bson:"heroImageURL,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// Commute holds free-text commute times to common destinations
type Commute struct {
	Downtown string `json:"downtown,omitempty" bson:"downtown,omitempty"`
	Airport  string `json:"airport,omitempty" bson:"airport,omitempty"`
	Mall     string `json:"mall,omitempty" bson:"mall,omitempty"`
}

// MarketSnapshot holds the headline market figures shown on a page
type MarketSnapshot struct {
	StartingPrice   string `json:"startingPrice,omitempty" bson:"startingPrice,omitempty"`
	AvgDaysOnMarket string `json:"avgDaysOnMarket,omitempty" bson:"avgDaysOnMarket,omitempty"`
	PropertyType    string `json:"propertyType,omitempty" bson:"propertyType,omitempty"`
}

// SEO holds page metadata
type SEO struct {
	MetaTitle       string `json:"metaTitle,omitempty" bson:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty" bson:"metaDescription,omitempty"`
}

// CommunityPageForm is the multipart form accepted by the admin upsert endpoint.
// KeyFeatures arrives as a single comma separated string.
type CommunityPageForm struct {
	Community       string `form:"community"`
	Slug            string `form:"slug"`
	Tagline         string `form:"tagline"`
	Description     string `form:"description"`
	Schools         string `form:"schools"`
	Safety          string `form:"safety"`
	Downtown        string `form:"downtown"`
	Airport         string `form:"airport"`
	Mall            string `form:"mall"`
	KeyFeatures     string `form:"keyFeatures"`
	StartingPrice   string `form:"startingPrice"`
	AvgDaysOnMarket string `form:"avgDaysOnMarket"`
	PropertyType    string `form:"propertyType"`
	MetaTitle       string `form:"metaTitle"`
	MetaDescription string `form:"metaDescription"`
	HeroImageURL    string `form:"heroImageURL"`
}

