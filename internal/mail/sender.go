package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/coldtrackhq/coldtrack/internal/services"
)

// Sender delivers templated reminder emails through an HTTP mail provider.
// Without a configured endpoint it runs disabled: sends are logged and
// reported as successful so a dev setup never blocks the reminder batch.
type Sender struct {
	apiURL   string
	apiToken string
	from     string
	client   *http.Client
}

func NewSender(apiURL string, apiToken string, from string) *Sender {
	return &Sender{
		apiURL:   apiURL,
		apiToken: apiToken,
		from:     from,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

type sendRequest struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Template string            `json:"template"`
	Params   map[string]string `json:"params"`
}

func (sender *Sender) SendTemplatedEmail(ctx context.Context, to string, kind services.MailKind, params map[string]string) error {
	if sender.apiURL == "" {
		log.Printf("mail: delivery disabled, skipping %s to %s", kind, to)
		return nil
	}

	payload, err := json.Marshal(sendRequest{
		From:     sender.from,
		To:       to,
		Template: string(kind),
		Params:   params,
	})
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sender.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sender.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+sender.apiToken)
	}

	resp, err := sender.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mail provider status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
