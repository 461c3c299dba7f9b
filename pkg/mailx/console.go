package mailx

import (
	"context"

	"github.com/youssef9656/server/pkg/logx"
)

// ConsoleSender logs outgoing mail instead of delivering it. Used in development.
type ConsoleSender struct{}

func NewConsoleSender() *ConsoleSender {
	return &ConsoleSender{}
}

func (c *ConsoleSender) Send(ctx context.Context, to, subject, html string) error {
	logx.WithFields(logx.Fields{
		"to":      to,
		"subject": subject,
		"bytes":   len(html),
	}).Info("email (console driver)")
	return nil
}
