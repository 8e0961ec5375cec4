package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"VideoScanner/internal/transcript"
)

// Innertube transcript fetching: the ANDROID /player endpoint lists caption
// tracks, and the track's timedtext URL serves the XML cues. Works where the
// plain watch page is blocked for server IPs.

const (
	ytPlayerURL      = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"
	ytAndroidVersion = "20.10.38"
	ytAndroidUA      = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"

	timedTextLimit = 2 << 20 // caption payloads stay far below 2 MiB
)

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// cleanCueText strips inline markup and entities from a caption fragment.
func cleanCueText(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlTagRe.ReplaceAllString(s, "")))
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion"`
	Hl                string `json:"hl"`
	Gl                string `json:"gl"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type innertubePlayerResp struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type ytTimedText struct {
	Lines []struct {
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
		Text  string  `xml:",chardata"`
	} `xml:"text"`
}

// Innertube is the primary transcript strategy.
type Innertube struct {
	client       *http.Client
	langs        []string
	baseOverride string
}

var _ transcript.Strategy = (*Innertube)(nil)

// NewInnertube wires an HTTP client; pass NewProxyClient's result to route
// through the authenticated forward proxy in restricted deployments.
func NewInnertube(client *http.Client) *Innertube {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Innertube{client: client, langs: []string{"en"}}
}

// Name identifies the strategy inside the registry.
func (i *Innertube) Name() string {
	return "innertube"
}

// Fetch returns the ordered caption cues of a video.
func (i *Innertube) Fetch(ctx context.Context, videoID string) ([]transcript.Cue, error) {
	tracks, err := i.captionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no caption tracks for video %s (subtitles may be disabled)", videoID)
	}

	track := pickTrack(tracks, i.langs)
	return i.fetchTimedText(ctx, track.BaseURL)
}

func (i *Innertube) captionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.playerURL(), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", ytAndroidUA)

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("player request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("player returned %s", resp.Status)
	}

	var playerResp innertubePlayerResp
	if err := json.NewDecoder(resp.Body).Decode(&playerResp); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}

	if status := playerResp.PlayabilityStatus.Status; status != "" && status != "OK" {
		return nil, fmt.Errorf("video %s is not playable: %s %s", videoID, status, playerResp.PlayabilityStatus.Reason)
	}

	return playerResp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, nil
}

// playerURL allows tests to point the strategy at a local server.
func (i *Innertube) playerURL() string {
	if i.baseOverride != "" {
		return i.baseOverride
	}
	return ytPlayerURL
}

func (i *Innertube) fetchTimedText(ctx context.Context, baseURL string) ([]transcript.Cue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build timedtext request: %w", err)
	}
	req.Header.Set("User-Agent", ytAndroidUA)

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, timedTextLimit))
	if err != nil {
		return nil, fmt.Errorf("read timedtext: %w", err)
	}

	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	cues := make([]transcript.Cue, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := cleanCueText(line.Text)
		if text == "" {
			continue
		}
		cues = append(cues, transcript.Cue{Text: text, Start: line.Start, Duration: line.Dur})
	}

	return cues, nil
}

// pickTrack selects the caption track to download: a manual track in a
// preferred language first, then an auto-generated one, then anything.
func pickTrack(tracks []captionTrack, langs []string) captionTrack {
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t
			}
		}
	}
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t
			}
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

// NewProxyClient builds an HTTP client whose requests are routed through an
// authenticated forward proxy. Credentials travel in the proxy URL userinfo.
func NewProxyClient(proxyURL, username, password string) (*http.Client, error) {
	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url %s: %w", proxyURL, err)
	}
	if username != "" {
		u.User = url.UserPassword(username, password)
	}

	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: &http.Transport{Proxy: http.ProxyURL(u)},
	}, nil
}
