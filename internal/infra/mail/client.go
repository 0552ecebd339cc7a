package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"mareblu/internal/app/policies"
)

// Client posts quote emails to the serverless mail function. Templating and
// SMTP delivery live on the other side; this only hands the fields over.
type Client struct {
	Endpoint string
	HTTP     *http.Client
	Logger   *slog.Logger
}

type quotePayload struct {
	To        string `json:"to"`
	GuestName string `json:"guest_name"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

func (c *Client) SendQuoteEmail(ctx context.Context, email policies.QuoteEmail) error {
	if c == nil || c.HTTP == nil {
		return errors.New("mail: http client not configured")
	}
	if c.Endpoint == "" {
		return errors.New("mail: endpoint not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	body, err := json.Marshal(quotePayload{
		To:        email.To,
		GuestName: email.GuestName,
		Subject:   email.Subject,
		Body:      email.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			err = fmt.Errorf("mail: service timeout (%s)", c.Endpoint)
		} else {
			err = fmt.Errorf("mail: service unavailable (%s)", c.Endpoint)
		}
		c.logError("quote email failed", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("mail: service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		c.logError("quote email rejected", err)
		return err
	}
	return nil
}

func (c *Client) logError(msg string, err error) {
	if c.Logger != nil {
		c.Logger.Error(msg, "error", err)
	}
}

var _ policies.Mailer = (*Client)(nil)
