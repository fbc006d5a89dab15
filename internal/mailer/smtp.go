// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTP sends messages through an SMTP relay.
type SMTP struct {
	host     string
	port     int
	user     string
	password string
}

// NewSMTP creates an SMTP transport. Port 0 means 587.
func NewSMTP(host string, port int, user, password string) *SMTP {
	if port == 0 {
		port = 587
	}
	return &SMTP{host: host, port: port, user: user, password: password}
}

func (s *SMTP) message(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	return m, nil
}

// Send implements Mailer.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if s.host == "" {
		return ErrNotConfigured
	}
	m, err := s.message(msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(s.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.user),
			mail.WithPassword(s.password),
		)
	}
	client, err := mail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("creating SMTP client (host=%s port=%d): %w", s.host, s.port, err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending mail (host=%s port=%d): %w", s.host, s.port, err)
	}
	return nil
}
