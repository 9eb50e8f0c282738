// Package mail integrates with the Microsoft Graph mailbox that receives
// the order emails. It exposes only what the engine needs: a pull of
// pending work items, audio attachments, and an idempotent acknowledge.
package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frsuministros/orderflow/internal/common"
	"github.com/frsuministros/orderflow/internal/model"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// Config carries the Graph application credentials.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	UserEmail    string
	Timeout      time.Duration
}

// GraphClient pulls unread order mails from a single monitored inbox using
// the client-credentials flow.
type GraphClient struct {
	httpClient *http.Client
	baseURL    string
	userEmail  string
}

// NewGraphClient builds a client whose transport refreshes the app token
// automatically.
func NewGraphClient(cfg Config) (*GraphClient, error) {
	if cfg.TenantID == "" || cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.UserEmail == "" {
		return nil, fmt.Errorf("%w: graph credentials", common.ErrMissingConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}

	client := cc.Client(context.Background())
	client.Timeout = cfg.Timeout

	return &GraphClient{
		httpClient: client,
		baseURL:    defaultBaseURL,
		userEmail:  cfg.UserEmail,
	}, nil
}

// Graph API response shapes, trimmed to the fields we read.
type messageList struct {
	Value []message `json:"value"`
}

type message struct {
	ID          string      `json:"id"`
	Body        messageBody `json:"body"`
	Attachments []struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		ContentBytes string `json:"contentBytes"`
	} `json:"attachments"`
}

type messageBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// FetchWorkItems pulls up to pageSize unread messages and extracts their
// order items. A message whose body is not an order payload contributes no
// items; that is content, not a transport failure.
func (c *GraphClient) FetchWorkItems(ctx context.Context, pageSize int) ([]model.WorkItem, error) {
	if pageSize <= 0 {
		pageSize = 10
	}

	endpoint := fmt.Sprintf("%s/users/%s/mailFolders/Inbox/messages?%s",
		c.baseURL, url.PathEscape(c.userEmail),
		url.Values{
			"$filter": {"isRead eq false"},
			"$top":    {fmt.Sprint(pageSize)},
		}.Encode())

	var list messageList
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, err
	}

	var items []model.WorkItem
	for _, msg := range list.Value {
		body := msg.Body.Content
		if strings.EqualFold(msg.Body.ContentType, "html") {
			body = stripHTML(body)
		}
		items = append(items, ParseOrderBody(body, msg.ID)...)
	}
	return items, nil
}

// FetchAudio returns the newest unread mp3 attachment, if any.
func (c *GraphClient) FetchAudio(ctx context.Context) (string, []byte, bool, error) {
	endpoint := fmt.Sprintf("%s/users/%s/mailFolders/Inbox/messages?%s",
		c.baseURL, url.PathEscape(c.userEmail),
		url.Values{
			"$filter": {"isRead eq false and hasAttachments eq true"},
			"$expand": {"attachments"},
			"$top":    {"10"},
		}.Encode())

	var list messageList
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return "", nil, false, err
	}

	for _, msg := range list.Value {
		for _, att := range msg.Attachments {
			if !strings.HasSuffix(strings.ToLower(att.Name), ".mp3") {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(att.ContentBytes)
			if err != nil {
				return "", nil, false, fmt.Errorf("%w: attachment %s: %v", common.ErrMalformedItem, att.Name, err)
			}
			return att.Name, data, true, nil
		}
	}
	return "", nil, false, nil
}

// MarkProcessed flags a message as read so the next poll skips it. Safe to
// repeat: marking an already-read or already-purged message is a no-op.
func (c *GraphClient) MarkProcessed(ctx context.Context, sourceID string) error {
	endpoint := fmt.Sprintf("%s/users/%s/messages/%s",
		c.baseURL, url.PathEscape(c.userEmail), url.PathEscape(sourceID))

	payload := strings.NewReader(`{"isRead": true}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, payload)
	if err != nil {
		return fmt.Errorf("failed to build mark-read request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: mark read %s: %v", common.ErrMailUnavailable, sourceID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		// Already purged or moved; the ack has nothing left to do.
		return nil
	default:
		return statusError(resp, sourceID)
	}
}

func (c *GraphClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrMailUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", common.ErrMailUnavailable, err)
	}
	return nil
}

func statusError(resp *http.Response, subject string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", common.ErrMailRateLimit, subject)
	}
	return fmt.Errorf("%w: %s: status %d: %s", common.ErrMailUnavailable, subject, resp.StatusCode, strings.TrimSpace(string(body)))
}
