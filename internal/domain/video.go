package domain

import "time"

// Video is the core entity describing the latest item discovered for a channel.
type Video struct {
	ID          string
	Title       string
	Description string
	ChannelID   string
	PublishedAt time.Time
}

// WatchURL returns the canonical watch page for the video.
func (v Video) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// DeploymentMode selects the transcript acquisition path at startup.
type DeploymentMode string

const (
	// ModeLocal fetches transcripts directly.
	ModeLocal DeploymentMode = "local"
	// ModeRestricted routes transcript traffic through the authenticated
	// forward proxy, for environments whose egress IPs YouTube blocks.
	ModeRestricted DeploymentMode = "restricted"
)
