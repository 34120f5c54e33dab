package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// maxPartLen stays under Discord's 2000-character content limit with
	// headroom for formatting.
	maxPartLen = 1950
	// partDelay spaces out consecutive webhook posts.
	partDelay = 1200 * time.Millisecond

	retryMaxElapsed = 30 * time.Second
)

// DiscordNotifier posts messages to a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	pingUserID string
	httpClient *http.Client
	delay      time.Duration
}

// NewDiscordNotifier creates a webhook notifier. pingUserID may be empty,
// in which case update notifications carry no mention.
func NewDiscordNotifier(webhookURL, pingUserID string) (*DiscordNotifier, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("missing Discord webhook URL")
	}
	return &DiscordNotifier{
		webhookURL: webhookURL,
		pingUserID: pingUserID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		delay:      partDelay,
	}, nil
}

type webhookPayload struct {
	Content         string           `json:"content"`
	AllowedMentions *allowedMentions `json:"allowed_mentions,omitempty"`
}

type allowedMentions struct {
	Users []string `json:"users"`
}

// Notify splits the message into parts and posts each to the webhook.
// Update messages get the user mention prepended to the first line.
func (n *DiscordNotifier) Notify(msg Message) error {
	content := msg.Content
	mention := msg.Kind == Update && n.pingUserID != ""
	if mention {
		content = fmt.Sprintf("<@%s> %s", n.pingUserID, content)
	}

	parts := SplitMessage(content, maxPartLen)
	sent := 0
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if sent > 0 {
			time.Sleep(n.delay)
		}
		if err := n.sendPart(part, mention); err != nil {
			return fmt.Errorf("sending part %d/%d: %w", i+1, len(parts), err)
		}
		sent++
	}
	return nil
}

func (n *DiscordNotifier) sendPart(content string, mention bool) error {
	payload := webhookPayload{Content: content}
	if mention {
		payload.AllowedMentions = &allowedMentions{Users: []string{n.pingUserID}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	post := func() error {
		resp, err := n.httpClient.Post(n.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode < 300:
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("webhook returned status %d", resp.StatusCode))
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = retryMaxElapsed
	return backoff.Retry(post, bo)
}

// SplitMessage splits content into parts no longer than maxLen, breaking
// only on line boundaries. A single line longer than maxLen becomes its own
// part rather than being broken mid-line.
func SplitMessage(content string, maxLen int) []string {
	lines := strings.Split(content, "\n")

	var parts []string
	var cur strings.Builder
	for _, line := range lines {
		if cur.Len() > 0 && cur.Len()+len(line)+1 > maxLen {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
