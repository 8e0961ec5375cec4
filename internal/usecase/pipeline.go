package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"VideoScanner/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Finder      ports.VideoFinder
	Transcripts ports.TranscriptResolver
	Summarizer  ports.Summarizer
	Notifier    ports.Notifier
	Window      time.Duration
	Now         func() time.Time
	Logger      *slog.Logger
}

// Pipeline runs the discover, transcribe, summarize, notify workflow once per
// configured channel.
type Pipeline struct {
	finder      ports.VideoFinder
	transcripts ports.TranscriptResolver
	summarizer  ports.Summarizer
	notifier    ports.Notifier
	window      time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		finder:      deps.Finder,
		transcripts: deps.Transcripts,
		summarizer:  deps.Summarizer,
		notifier:    deps.Notifier,
		window:      deps.Window,
		now:         now,
		logger:      logger,
	}
}

// Run processes each channel in the configured order. Channels are isolated:
// a failure in one never stops the next, and the run itself always succeeds.
// Failures surface through the error-notification side channel and logs only.
func (p *Pipeline) Run(ctx context.Context, channelIDs []string) {
	for _, channelID := range channelIDs {
		p.processChannel(ctx, channelID)
	}
}

// processChannel drives a single channel through its terminal state. Each
// channel sends at most one outbound notification per run: a success notice,
// an error notice, or nothing on the silent skip paths.
func (p *Pipeline) processChannel(ctx context.Context, channelID string) {
	video, err := p.finder.LatestVideo(ctx, channelID)
	if err != nil {
		reason := fmt.Sprintf("Error getting latest video from channel %s: %v", channelID, err)
		p.logger.Error("discovery failed", "channel", channelID, "error", err)
		p.notifyError(ctx, "N/A", "Channel "+channelID, reason)
		return
	}
	if video == nil {
		p.logger.Info("no videos found", "channel", channelID)
		return
	}

	if !IsFresh(video.PublishedAt, p.now(), p.window) {
		p.logger.Info("no new videos inside freshness window",
			"channel", channelID, "video", video.ID, "published_at", video.PublishedAt)
		return
	}

	transcription, err := p.transcripts.Resolve(ctx, video.ID)
	if err != nil {
		p.logger.Error("transcription failed", "channel", channelID, "video", video.ID, "error", err)
		p.notifyError(ctx, video.ID, video.Title, err.Error())
		return
	}

	summary, err := p.summarizer.Summarize(ctx, *video, transcription)
	if err != nil {
		p.logger.Error("summarization failed", "channel", channelID, "video", video.ID, "error", err)
		p.notifyError(ctx, video.ID, video.Title, err.Error())
		return
	}

	// The send result is logged and discarded: a delivery problem must not
	// fail the run or trigger the error channel for an already-summarized video.
	if err := p.notifier.NotifySuccess(ctx, *video, summary); err != nil {
		p.logger.Error("success notification failed", "channel", channelID, "video", video.ID, "error", err)
		return
	}

	p.logger.Info("new video notification sent", "channel", channelID, "video", video.ID)
}

func (p *Pipeline) notifyError(ctx context.Context, videoID, videoTitle, reason string) {
	if err := p.notifier.NotifyError(ctx, videoID, videoTitle, reason); err != nil {
		p.logger.Error("error notification failed", "video", videoID, "error", err)
	}
}
