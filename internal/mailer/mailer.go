// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer hands outgoing messages to a mail transport: the Resend
// HTTP API, an SMTP relay, or the application log.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Transport names
const (
	TransportResend = "resend"
	TransportSMTP   = "smtp"
	TransportLog    = "log"
)

// ErrNotConfigured is returned when the selected transport lacks credentials.
var ErrNotConfigured = errors.New("mailer: email service not configured")

// Message is a plain-text e-mail.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Config selects and configures a transport.
type Config struct {
	Transport    string
	ResendAPIKey string
	ResendURL    string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

// New returns the configured transport. A transport without credentials is
// still returned; its Send reports ErrNotConfigured.
func New(cfg Config, logger *slog.Logger) (Mailer, error) {
	switch cfg.Transport {
	case TransportResend, "":
		return NewResend(cfg.ResendAPIKey, cfg.ResendURL), nil
	case TransportSMTP:
		return NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword), nil
	case TransportLog:
		return NewLog(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}
