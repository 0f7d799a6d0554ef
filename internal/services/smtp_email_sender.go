package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
)

type SMTPSender struct {
	Host   string
	Port   string
	User   string
	Pass   string
	UseTLS bool
}

func (s *SMTPSender) Send(_ context.Context, msg EmailMessage) error {
	addr := net.JoinHostPort(s.Host, s.Port)

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)

	var c *smtp.Client
	var err error
	if s.UseTLS {
		conn, dialErr := tls.Dial("tcp", addr, &tls.Config{ServerName: s.Host})
		if dialErr != nil {
			return dialErr
		}
		c, err = smtp.NewClient(conn, s.Host)
	} else {
		c, err = smtp.Dial(addr)
	}
	if err != nil {
		return err
	}
	defer c.Quit()

	if s.User != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(msg.From); err != nil {
		// A rejection of MAIL FROM is a sender identity problem.
		var tpErr *textproto.Error
		if ok := asTextprotoError(err, &tpErr); ok && tpErr.Code >= 500 {
			return &SenderIdentityError{Err: err}
		}
		return err
	}
	if err := c.Rcpt(msg.To); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(buildMessage(msg)))
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}

func asTextprotoError(err error, target **textproto.Error) bool {
	tpErr, ok := err.(*textproto.Error)
	if ok {
		*target = tpErr
	}
	return ok
}

func buildMessage(msg EmailMessage) string {
	headers := []string{
		"From: " + msg.From,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
	}
	if msg.ReplyTo != "" {
		headers = append(headers, "Reply-To: "+msg.ReplyTo)
	}

	var b strings.Builder
	if msg.HTML != "" {
		boundary := "workforce-alt-boundary"
		headers = append(headers, fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", boundary))
		for _, h := range headers {
			b.WriteString(h + "\r\n")
		}
		b.WriteString("\r\n")
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		b.WriteString(msg.Text + "\r\n")
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
		b.WriteString(msg.HTML + "\r\n")
		b.WriteString("--" + boundary + "--\r\n")
		return b.String()
	}

	headers = append(headers, "Content-Type: text/plain; charset=\"utf-8\"")
	for _, h := range headers {
		b.WriteString(h + "\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(msg.Text)
	return b.String()
}
