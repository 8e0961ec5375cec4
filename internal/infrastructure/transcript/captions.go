package transcript

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"google.golang.org/api/youtube/v3"

	"VideoScanner/internal/transcript"
)

// Captions is the alternate transcript strategy: Data API captions.list
// followed by a caption-track download. The download endpoint rejects plain
// API keys for videos the key's project does not own, so this strategy is
// only selected by an explicit configuration override.
type Captions struct {
	svc *youtube.Service
}

var _ transcript.Strategy = (*Captions)(nil)

// NewCaptions wires a Data API service.
func NewCaptions(svc *youtube.Service) *Captions {
	return &Captions{svc: svc}
}

// Name identifies the strategy inside the registry.
func (c *Captions) Name() string {
	return "captions"
}

// Fetch lists the video's caption tracks, downloads the best one as TTML,
// and extracts its text tokens.
func (c *Captions) Fetch(ctx context.Context, videoID string) ([]transcript.Cue, error) {
	list, err := c.svc.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list captions: %w", err)
	}
	if len(list.Items) == 0 {
		return nil, fmt.Errorf("no caption tracks for video %s", videoID)
	}

	trackID := pickCaptionTrack(list.Items)

	resp, err := c.svc.Captions.Download(trackID).Tfmt("ttml").Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download caption track %s: %w", trackID, err)
	}
	defer resp.Body.Close()

	cues, err := extractCaptionCues(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse caption track %s: %w", trackID, err)
	}
	return cues, nil
}

// pickCaptionTrack prefers a manually authored English track, then any
// English track, then the first one.
func pickCaptionTrack(items []*youtube.Caption) string {
	for _, item := range items {
		if item.Snippet == nil {
			continue
		}
		if strings.HasPrefix(item.Snippet.Language, "en") && item.Snippet.TrackKind != "asr" {
			return item.Id
		}
	}
	for _, item := range items {
		if item.Snippet != nil && strings.HasPrefix(item.Snippet.Language, "en") {
			return item.Id
		}
	}
	return items[0].Id
}

// extractCaptionCues pulls text tokens out of downloaded caption markup.
// TTML wraps each cue in a <p> with a begin offset; anything unexpected or
// malformed is skipped line by line rather than failing the whole track.
func extractCaptionCues(r io.Reader) ([]transcript.Cue, error) {
	raw, err := io.ReadAll(io.LimitReader(r, timedTextLimit))
	if err != nil {
		return nil, fmt.Errorf("read caption body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse caption markup: %w", err)
	}

	var cues []transcript.Cue
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		cue := transcript.Cue{Text: text}
		if begin, ok := sel.Attr("begin"); ok {
			cue.Start = parseClockTime(begin)
		}
		cues = append(cues, cue)
	})
	if len(cues) > 0 {
		return cues, nil
	}

	// Not TTML after all; fall back to stripping tags per line.
	for _, line := range strings.Split(string(raw), "\n") {
		text := cleanCueText(line)
		if text == "" {
			continue
		}
		cues = append(cues, transcript.Cue{Text: text})
	}
	return cues, nil
}

// parseClockTime converts a TTML "hh:mm:ss.fff" offset to seconds. Malformed
// offsets map to zero; the cue text is still usable.
func parseClockTime(s string) float64 {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}
	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0
	}
	return hours*3600 + minutes*60 + seconds
}
