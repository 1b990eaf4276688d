package pkg

import (
	"crypto/tls"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer 发信实现，满足 service 层的 Mailer 接口
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(msg)
}

// InviteHTML 社团邀请邮件正文
func InviteHTML(clubName, role, code string, ttl time.Duration) string {
	hours := int(ttl.Hours())
	return fmt.Sprintf(`<p>您好，</p><p>社团 <b>%s</b> 邀请您以 <b>%s</b> 角色加入，邀请码：<b style="font-size:18px;">%s</b>。</p><p>有效期 %d 小时，请勿泄露给他人。</p>`, clubName, role, code, hours)
}
