// Package sender 通知投递通道实现
package sender

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/wyfcoding/recruiting/internal/notification/domain"
	"github.com/wyfcoding/recruiting/pkg/logger"
)

// SMTPSender 基于 SMTP 的邮件通道
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPSender 创建 SMTP 邮件通道
func NewSMTPSender(host string, port int, username, password, from string) domain.Sender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send 执行单次 SMTP 投递，不做重试
func (s *SMTPSender) Send(ctx context.Context, recipient, subject, body string) error {
	logger.Debug(ctx, "sending email", "recipient", recipient, "subject", subject)

	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + recipient + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
