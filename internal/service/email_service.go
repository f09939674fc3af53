package service

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/smarteats-next/internal/config"
	"github.com/smarteats-next/internal/logger"
)

// EmailSender 邮件发送接口
type EmailSender interface {
	Send(to, subject, body string) error
}

// NewEmailSender 根据配置创建邮件发送器，未启用时返回空实现
func NewEmailSender(cfg config.EmailConfig) EmailSender {
	if !cfg.Enabled {
		return noopEmailSender{}
	}
	return &smtpSender{cfg: cfg}
}

type noopEmailSender struct{}

func (noopEmailSender) Send(to, subject, _ string) error {
	logger.Debugw("email_skipped", "to", to, "subject", subject)
	return nil
}

// smtpSender 通过 SMTP 发送纯文本邮件
type smtpSender struct {
	cfg config.EmailConfig
}

func (s *smtpSender) Send(to, subject, body string) error {
	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	}

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
