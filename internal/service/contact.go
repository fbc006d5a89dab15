// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/studio-go/internal/mailer"
	"github.com/olegiv/studio-go/internal/model"
)

// Contact forwards contact form messages to the studio inbox.
type Contact struct {
	mailer mailer.Mailer
	from   string
	to     string
	logger *slog.Logger
}

// NewContact creates a Contact service sending from from to to.
func NewContact(m mailer.Mailer, from, to string, logger *slog.Logger) *Contact {
	if logger == nil {
		logger = slog.Default()
	}
	return &Contact{mailer: m, from: from, to: to, logger: logger}
}

// Send validates msg and mails it with Reply-To set to the sender.
func (c *Contact) Send(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	if err := msg.Validate(); err != nil {
		return err
	}
	if c.mailer == nil || c.to == "" {
		return mailer.ErrNotConfigured
	}

	err := c.mailer.Send(ctx, mailer.Message{
		From:    c.from,
		To:      c.to,
		ReplyTo: msg.Email,
		Subject: "New Contact: " + msg.Name,
		Text:    fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", msg.Name, msg.Email, msg.Message),
	})
	if err != nil {
		c.logger.Error("contact mail failed", "category", model.EventCategoryContact, "error", err)
		return err
	}
	c.logger.Info("contact mail sent", "category", model.EventCategoryContact)
	return nil
}
