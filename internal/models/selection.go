package models

// SelectedCommunities is the singleton curation list of CommunityPage IDs.
// The first record found is authoritative.
type SelectedCommunities struct {
	Selected []string `json:"selected" bson:"selected"`
}
