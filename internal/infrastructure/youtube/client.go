package youtube

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/youtube/v3"

	"VideoScanner/internal/domain"
	"VideoScanner/internal/ports"
)

// Client adapts the YouTube Data API v3 for discovery and channel lookups.
type Client struct {
	svc *youtube.Service
}

var _ ports.VideoFinder = (*Client)(nil)
var _ ports.ChannelDirectory = (*Client)(nil)

// NewClient wires a Data API service.
func NewClient(svc *youtube.Service) *Client {
	return &Client{svc: svc}
}

// LatestVideo returns the most recently published video of a channel, or
// nil when the channel has none.
func (c *Client) LatestVideo(ctx context.Context, channelID string) (*domain.Video, error) {
	response, err := c.svc.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		MaxResults(1).
		Order("date").
		Type("video").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search latest video: %w", err)
	}

	if len(response.Items) == 0 {
		return nil, nil
	}

	item := response.Items[0]
	if item.Id == nil || item.Snippet == nil {
		return nil, fmt.Errorf("search result for channel %s is missing id or snippet", channelID)
	}

	// PublishedAt is RFC 3339 with an explicit offset (normally Z).
	publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("parse publishedAt %q: %w", item.Snippet.PublishedAt, err)
	}

	return &domain.Video{
		ID:          item.Id.VideoId,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		ChannelID:   channelID,
		PublishedAt: publishedAt,
	}, nil
}

// ChannelName resolves the display name of a channel. An empty name with a
// nil error means the API returned no items.
func (c *Client) ChannelName(ctx context.Context, channelID string) (string, error) {
	response, err := c.svc.Channels.List([]string{"snippet"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list channel: %w", err)
	}

	if len(response.Items) == 0 || response.Items[0].Snippet == nil {
		return "", nil
	}

	return response.Items[0].Snippet.Title, nil
}
