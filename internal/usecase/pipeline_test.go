package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"VideoScanner/internal/domain"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeFinder struct {
	videos map[string]*domain.Video
	errs   map[string]error
	calls  []string
}

func (f *fakeFinder) LatestVideo(_ context.Context, channelID string) (*domain.Video, error) {
	f.calls = append(f.calls, channelID)
	if err, ok := f.errs[channelID]; ok {
		return nil, err
	}
	return f.videos[channelID], nil
}

type fakeTranscripts struct {
	text string
	err  error
}

func (f *fakeTranscripts) Resolve(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

type fakeSummarizer struct {
	summary string
	err     error
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ domain.Video, _ string) (string, error) {
	return f.summary, f.err
}

type sentError struct {
	videoID string
	title   string
	message string
}

type sentSuccess struct {
	video   domain.Video
	summary string
}

type fakeNotifier struct {
	successes []sentSuccess
	errors    []sentError
	sendErr   error
}

func (f *fakeNotifier) NotifySuccess(_ context.Context, video domain.Video, summary string) error {
	f.successes = append(f.successes, sentSuccess{video: video, summary: summary})
	return f.sendErr
}

func (f *fakeNotifier) NotifyError(_ context.Context, videoID, videoTitle, errMsg string) error {
	f.errors = append(f.errors, sentError{videoID: videoID, title: videoTitle, message: errMsg})
	return f.sendErr
}

func freshVideo(id, channelID string) *domain.Video {
	return &domain.Video{
		ID:          id,
		Title:       "Title of " + id,
		Description: "description",
		ChannelID:   channelID,
		PublishedAt: testNow.Add(-1 * time.Hour),
	}
}

func newTestPipeline(finder *fakeFinder, tr *fakeTranscripts, sum *fakeSummarizer, not *fakeNotifier) *Pipeline {
	return NewPipeline(PipelineDeps{
		Finder:      finder,
		Transcripts: tr,
		Summarizer:  sum,
		Notifier:    not,
		Window:      6 * time.Hour,
		Now:         func() time.Time { return testNow },
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestRunHappyPath(t *testing.T) {
	t.Parallel()

	finder := &fakeFinder{videos: map[string]*domain.Video{"chanA": freshVideo("vid1", "chanA")}}
	notifier := &fakeNotifier{}
	p := newTestPipeline(finder,
		&fakeTranscripts{text: "full transcript"},
		&fakeSummarizer{summary: "a summary"},
		notifier)

	p.Run(context.Background(), []string{"chanA"})

	if len(notifier.errors) != 0 {
		t.Fatalf("unexpected error notifications: %+v", notifier.errors)
	}
	if len(notifier.successes) != 1 {
		t.Fatalf("expected 1 success notification, got %d", len(notifier.successes))
	}
	sent := notifier.successes[0]
	if sent.video.ID != "vid1" || sent.summary != "a summary" {
		t.Fatalf("unexpected success payload: %+v", sent)
	}
	if sent.video.WatchURL() != "https://www.youtube.com/watch?v=vid1" {
		t.Fatalf("unexpected watch url: %s", sent.video.WatchURL())
	}
}

func TestRunStaleVideoSkipsSilently(t *testing.T) {
	t.Parallel()

	stale := freshVideo("vid1", "chanA")
	stale.PublishedAt = testNow.Add(-10 * time.Hour)
	finder := &fakeFinder{videos: map[string]*domain.Video{
		"chanA": stale,
		"chanB": freshVideo("vid2", "chanB"),
	}}
	notifier := &fakeNotifier{}
	p := newTestPipeline(finder,
		&fakeTranscripts{text: "full transcript"},
		&fakeSummarizer{summary: "a summary"},
		notifier)

	p.Run(context.Background(), []string{"chanA", "chanB"})

	if len(notifier.errors) != 0 {
		t.Fatalf("stale video must not notify: %+v", notifier.errors)
	}
	if len(notifier.successes) != 1 || notifier.successes[0].video.ID != "vid2" {
		t.Fatalf("expected only chanB to notify, got %+v", notifier.successes)
	}
}

func TestRunEmptyDiscoverySkipsSilently(t *testing.T) {
	t.Parallel()

	finder := &fakeFinder{videos: map[string]*domain.Video{}}
	notifier := &fakeNotifier{}
	p := newTestPipeline(finder, &fakeTranscripts{}, &fakeSummarizer{}, notifier)

	p.Run(context.Background(), []string{"chanA"})

	if len(notifier.successes)+len(notifier.errors) != 0 {
		t.Fatalf("empty discovery must not notify: %+v %+v", notifier.successes, notifier.errors)
	}
}

func TestRunDiscoveryErrorNotifiesAndContinues(t *testing.T) {
	t.Parallel()

	finder := &fakeFinder{
		videos: map[string]*domain.Video{"chanB": freshVideo("vid2", "chanB")},
		errs:   map[string]error{"chanA": errors.New("quota exceeded")},
	}
	notifier := &fakeNotifier{}
	p := newTestPipeline(finder,
		&fakeTranscripts{text: "full transcript"},
		&fakeSummarizer{summary: "a summary"},
		notifier)

	p.Run(context.Background(), []string{"chanA", "chanB"})

	if len(finder.calls) != 2 {
		t.Fatalf("expected both channels processed, got %v", finder.calls)
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("expected 1 error notification, got %d", len(notifier.errors))
	}
	sent := notifier.errors[0]
	if sent.videoID != "N/A" {
		t.Errorf("expected N/A placeholder id, got %q", sent.videoID)
	}
	if sent.title != "Channel chanA" {
		t.Errorf("expected synthesized channel label, got %q", sent.title)
	}
	if !strings.Contains(sent.message, "quota exceeded") {
		t.Errorf("discovery error not embedded: %q", sent.message)
	}
	if len(notifier.successes) != 1 || notifier.successes[0].video.ID != "vid2" {
		t.Fatalf("chanB should still succeed, got %+v", notifier.successes)
	}
}

func TestRunTranscriptFailureNotifiesError(t *testing.T) {
	t.Parallel()

	finder := &fakeFinder{videos: map[string]*domain.Video{"chanA": freshVideo("vid1", "chanA")}}
	notifier := &fakeNotifier{}
	p := newTestPipeline(finder,
		&fakeTranscripts{err: errors.New("captions disabled")},
		&fakeSummarizer{summary: "never used"},
		notifier)

	p.Run(context.Background(), []string{"chanA"})

	if len(notifier.successes) != 0 {
		t.Fatalf("transcript failure must not send success: %+v", notifier.successes)
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("expected exactly 1 error notification, got %d", len(notifier.errors))
	}
	sent := notifier.errors[0]
	if sent.videoID != "vid1" || sent.title != "Title of vid1" {
		t.Errorf("unexpected error notification target: %+v", sent)
	}
	if !strings.Contains(sent.message, "captions disabled") {
		t.Errorf("transcript failure reason not embedded verbatim: %q", sent.message)
	}
}

func TestRunSummaryFailureNotifiesError(t *testing.T) {
	t.Parallel()

	finder := &fakeFinder{videos: map[string]*domain.Video{"chanA": freshVideo("vid1", "chanA")}}
	notifier := &fakeNotifier{}
	p := newTestPipeline(finder,
		&fakeTranscripts{text: "full transcript"},
		&fakeSummarizer{err: errors.New("model overloaded")},
		notifier)

	p.Run(context.Background(), []string{"chanA"})

	if len(notifier.successes) != 0 {
		t.Fatalf("summary failure must not send success: %+v", notifier.successes)
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("expected exactly 1 error notification, got %d", len(notifier.errors))
	}
	if !strings.Contains(notifier.errors[0].message, "model overloaded") {
		t.Errorf("summary failure reason not embedded: %q", notifier.errors[0].message)
	}
}

func TestRunNotificationFailureIsContained(t *testing.T) {
	t.Parallel()

	finder := &fakeFinder{videos: map[string]*domain.Video{
		"chanA": freshVideo("vid1", "chanA"),
		"chanB": freshVideo("vid2", "chanB"),
	}}
	notifier := &fakeNotifier{sendErr: errors.New("telegram: 502")}
	p := newTestPipeline(finder,
		&fakeTranscripts{text: "full transcript"},
		&fakeSummarizer{summary: "a summary"},
		notifier)

	p.Run(context.Background(), []string{"chanA", "chanB"})

	// Both sends were attempted exactly once; the failures stayed local.
	if len(notifier.successes) != 2 {
		t.Fatalf("expected both channels to attempt success sends, got %d", len(notifier.successes))
	}
	if len(notifier.errors) != 0 {
		t.Fatalf("send failure must not trigger the error channel: %+v", notifier.errors)
	}
}

func TestRunProcessesChannelsInOrder(t *testing.T) {
	t.Parallel()

	finder := &fakeFinder{videos: map[string]*domain.Video{}}
	p := newTestPipeline(finder, &fakeTranscripts{}, &fakeSummarizer{}, &fakeNotifier{})

	p.Run(context.Background(), []string{"chanC", "chanA", "chanB"})

	want := []string{"chanC", "chanA", "chanB"}
	for i, ch := range want {
		if finder.calls[i] != ch {
			t.Fatalf("channels processed out of order: %v", finder.calls)
		}
	}
}

func TestRunDuplicateChannelProcessedTwice(t *testing.T) {
	t.Parallel()

	finder := &fakeFinder{videos: map[string]*domain.Video{"chanA": freshVideo("vid1", "chanA")}}
	notifier := &fakeNotifier{}
	p := newTestPipeline(finder,
		&fakeTranscripts{text: "full transcript"},
		&fakeSummarizer{summary: "a summary"},
		notifier)

	p.Run(context.Background(), []string{"chanA", "chanA"})

	if len(notifier.successes) != 2 {
		t.Fatalf("duplicate channel ids are processed independently, got %d sends", len(notifier.successes))
	}
}
