// Package email sends transactional mail through a Postmark-compatible
// HTTP API.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type Client struct {
	serverToken string
	fromEmail   string
	apiURL      string
	appBaseURL  string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithAPIURL(url string) Option {
	return func(cl *Client) {
		cl.apiURL = url
	}
}

func NewClient(serverToken, fromEmail, appBaseURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		apiURL:      "https://api.postmarkapp.com/email",
		appBaseURL:  appBaseURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type message struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendPasswordReset emails the reset link. The raw token appears only here;
// it is never logged or persisted.
func (c *Client) SendPasswordReset(toEmail, employeeID, rawToken string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s&emp=%s", c.appBaseURL, rawToken, employeeID)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nWe received a request to reset your password. Open the link below to choose a new one:\n\n%s\n\nThe link expires in 1 hour and can be used once. If you didn't request a reset, ignore this email.",
		employeeID, resetURL,
	)
	htmlBody := fmt.Sprintf(
		`<p>Hi <strong>%s</strong>,</p><p>We received a request to reset your password. Open the link below to choose a new one:</p><p><a href="%s">Reset password</a></p><p>The link expires in 1 hour and can be used once. If you didn't request a reset, ignore this email.</p>`,
		employeeID, resetURL,
	)

	payload := message{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  "Password Reset Request",
		HtmlBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send email: status %d", resp.StatusCode)
	}
	return nil
}
