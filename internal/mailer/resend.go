// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultResendURL is the Resend send endpoint.
const DefaultResendURL = "https://api.resend.com/emails"

// Resend sends messages through the Resend HTTP API.
type Resend struct {
	apiKey string
	url    string
	client *http.Client
}

// NewResend creates a Resend transport. An empty url uses DefaultResendURL.
func NewResend(apiKey, url string) *Resend {
	if url == "" {
		url = DefaultResendURL
	}
	return &Resend{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send implements Mailer.
func (r *Resend) Send(ctx context.Context, msg Message) error {
	if r.apiKey == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		var apiErr resendError
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("resend: %s (%d): %s", apiErr.Name, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("resend: unexpected status %d", resp.StatusCode)
	}
	return nil
}
