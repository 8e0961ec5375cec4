package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"VideoScanner/internal/domain"
	"VideoScanner/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier sends video alerts to a Telegram chat via the bot API.
type Notifier struct {
	botToken  string
	chatID    string
	directory ports.ChannelDirectory
	client    *http.Client
	apiBase   string
	logger    *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier. The directory resolves
// channel IDs to display names for the success message.
func NewNotifier(botToken, chatID string, directory ports.ChannelDirectory, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		botToken:  botToken,
		chatID:    chatID,
		directory: directory,
		client:    &http.Client{Timeout: 5 * time.Second},
		apiBase:   defaultAPIBase,
		logger:    logger,
	}
}

// NotifySuccess posts the new-video alert with the generated summary.
func (n *Notifier) NotifySuccess(ctx context.Context, video domain.Video, summary string) error {
	channelName := n.channelName(ctx, video.ChannelID)

	text := fmt.Sprintf("🎥 New Video Alert! 🎥\n📺 Channel: %s\n📺 Title: %s\n📝 Summary:\n%s\n🔗 Watch here: %s",
		channelName, video.Title, summary, video.WatchURL())

	return n.sendMessage(ctx, text, "Markdown")
}

// NotifyError posts the processing-failure alert for a video.
func (n *Notifier) NotifyError(ctx context.Context, videoID, videoTitle, errMsg string) error {
	text := fmt.Sprintf("⚠️ Video processing error alert! ⚠️\n📺 Video: %s\n🔗 URL: https://www.youtube.com/watch?v=%s\n❌ Error: %s\nThe video won't be summarized because of the error.",
		videoTitle, videoID, errMsg)

	return n.sendMessage(ctx, text, "")
}

// channelName resolves the display name, falling back to "Unknown Channel"
// when the lookup fails or turns up nothing.
func (n *Notifier) channelName(ctx context.Context, channelID string) string {
	if n.directory == nil {
		return "Unknown Channel"
	}
	name, err := n.directory.ChannelName(ctx, channelID)
	if err != nil {
		n.logger.Warn("channel name lookup failed", "channel_id", channelID, "error", err)
		return "Unknown Channel"
	}
	if name == "" {
		return "Unknown Channel"
	}
	return name
}

func (n *Notifier) sendMessage(ctx context.Context, text, parseMode string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	if parseMode != "" {
		form.Set("parse_mode", parseMode)
		form.Set("disable_web_page_preview", "false")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram error %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}
