package mailx

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"
	"time"
)

// Sender delivers one HTML email
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SenderFunc adapts a function to Sender
type SenderFunc func(ctx context.Context, to, subject, html string) error

func (f SenderFunc) Send(ctx context.Context, to, subject, html string) error {
	return f(ctx, to, subject, html)
}

// buildMessage renders an RFC 5322 message with a UTF-8 HTML body
func buildMessage(from, to, subject, html string) []byte {
	var b bytes.Buffer
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(strings.ReplaceAll(html, "\n", "\r\n"))
	return b.Bytes()
}
