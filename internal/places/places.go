// Package places fetches reviews of a single place from the Google Places API.
package places

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/community-cms-api/internal/models"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	placesapi "google.golang.org/api/places/v1"
)

// ErrNotConfigured is returned when no place ID is set
var ErrNotConfigured = errors.New("google place id is not configured")

// Client reads reviews of one configured place
type Client struct {
	svc     *placesapi.Service
	placeID string
	log     zerolog.Logger
}

// New builds a client for placeID. Extra options are appended after the API key.
func New(ctx context.Context, apiKey, placeID string, log zerolog.Logger, opts ...option.ClientOption) (*Client, error) {
	if placeID == "" {
		return nil, ErrNotConfigured
	}

	var clientOpts []option.ClientOption
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := placesapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create places service: %w", err)
	}

	return &Client{
		svc:     svc,
		placeID: placeID,
		log:     log.With().Str("component", "places").Str("place_id", placeID).Logger(),
	}, nil
}

// FetchReviews returns the reviews Google currently exposes for the place
func (c *Client) FetchReviews(ctx context.Context) ([]*models.GoogleReview, error) {
	place, err := c.svc.Places.Get("places/" + c.placeID).
		Fields(googleapi.Field("reviews")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch place details: %w", err)
	}

	reviews := make([]*models.GoogleReview, 0, len(place.Reviews))
	for _, r := range place.Reviews {
		review, err := ToGoogleReview(r)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	c.log.Debug().Int("count", len(reviews)).Msg("Fetched reviews")
	return reviews, nil
}

// ToGoogleReview maps an API review. The publish time in Unix seconds is the
// stable review identifier; the review date is its UTC calendar day.
func ToGoogleReview(r *placesapi.GoogleMapsPlacesV1Review) (*models.GoogleReview, error) {
	published, err := time.Parse(time.RFC3339, r.PublishTime)
	if err != nil {
		return nil, fmt.Errorf("invalid publish time %q for review %s: %w", r.PublishTime, r.Name, err)
	}

	review := &models.GoogleReview{
		GoogleReviewID: strconv.FormatInt(published.Unix(), 10),
		Rating:         r.Rating,
		ReviewDate:     published.UTC().Format(models.ReviewDateLayout),
	}
	if r.AuthorAttribution != nil {
		review.AuthorName = r.AuthorAttribution.DisplayName
		review.ProfilePhoto = r.AuthorAttribution.PhotoUri
	}
	switch {
	case r.Text != nil:
		review.Content = r.Text.Text
	case r.OriginalText != nil:
		review.Content = r.OriginalText.Text
	}

	return review, nil
}
