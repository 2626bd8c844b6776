package mailer

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/MES4game/POLYHUB-WEB-BACK/config"
)

// Mailer 邮件发送接口。业务层只依赖该接口，便于测试替换。
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer 基于 net/smtp 的实现
type SMTPMailer struct {
	addr   string
	auth   smtp.Auth
	from   string
	logger *zap.Logger
}

// NewSMTPMailer 创建 SMTP 邮件发送器
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth:   smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPHost),
		from:   cfg.From,
		logger: logger,
	}
}

// Send 同步发送纯文本邮件，失败返回错误由调用方决定补偿
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := "MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		fmt.Sprintf("From: %s\r\n", m.from) +
		fmt.Sprintf("To: %s\r\n", to) +
		fmt.Sprintf("Subject: %s\r\n", subject) +
		"\r\n" + body

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		m.logger.Error("发送邮件失败", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
