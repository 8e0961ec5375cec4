package ports

import (
	"context"

	"VideoScanner/internal/domain"
)

// VideoFinder discovers the most recently published video for a channel.
// A nil video with a nil error means the channel has no videos at all.
type VideoFinder interface {
	LatestVideo(ctx context.Context, channelID string) (*domain.Video, error)
}

// ChannelDirectory resolves a channel id to its display name. An empty name
// with a nil error means the lookup returned no result.
type ChannelDirectory interface {
	ChannelName(ctx context.Context, channelID string) (string, error)
}

// TranscriptResolver returns the full transcript text for a video, or an
// error describing why none could be obtained. A missing transcript and a
// failed fetch are indistinguishable at this boundary.
type TranscriptResolver interface {
	Resolve(ctx context.Context, videoID string) (string, error)
}

// Summarizer produces the formatted summary for a video and its transcript.
type Summarizer interface {
	Summarize(ctx context.Context, video domain.Video, transcript string) (string, error)
}

// Notifier delivers outbound chat messages. Implementations send exactly one
// message per call and report delivery problems through the returned error;
// callers log that error but never route control flow on it.
type Notifier interface {
	NotifySuccess(ctx context.Context, video domain.Video, summary string) error
	NotifyError(ctx context.Context, videoID, videoTitle, errMsg string) error
}
