// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"context"
	"log/slog"
)

// Log writes messages to the logger instead of sending them.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a log transport.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Send implements Mailer.
func (l *Log) Send(_ context.Context, msg Message) error {
	l.logger.Info("mail",
		"from", msg.From,
		"to", msg.To,
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
