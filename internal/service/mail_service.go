package service

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"go.uber.org/zap"
)

type MailService interface {
	SendVerificationCode(to, code string) error
	SendResetCode(to, code string) error
	SendShipmentStatus(to, tracking, status string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailService struct {
	cfg SMTPConfig
	tpl *template.Template
}

type mailData struct {
	Title string
	Body  string
	Code  string
}

const mailTemplate = `<!doctype html>
<html>
<body style="font-family: Arial, sans-serif; color: #1a1a1a;">
  <div style="max-width: 560px; margin: 0 auto; padding: 24px;">
    <h2 style="color: #b4121b;">BBExpress</h2>
    <h3>{{.Title}}</h3>
    <p>{{.Body}}</p>
    {{if .Code}}<p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>{{end}}
    <p style="color: #888; font-size: 12px;">Si no has solicitado este correo, puedes ignorarlo.</p>
  </div>
</body>
</html>`

func NewSMTPMailService(cfg SMTPConfig) MailService {
	return &smtpMailService{
		cfg: cfg,
		tpl: template.Must(template.New("mail").Parse(mailTemplate)),
	}
}

func (s *smtpMailService) SendVerificationCode(to, code string) error {
	return s.send(to, "Verifica tu correo", mailData{
		Title: "Verifica tu correo",
		Body:  "Introduce este código para confirmar tu cuenta. Caduca en 15 minutos.",
		Code:  code,
	})
}

func (s *smtpMailService) SendResetCode(to, code string) error {
	return s.send(to, "Restablece tu contraseña", mailData{
		Title: "Restablece tu contraseña",
		Body:  "Hemos recibido una solicitud para restablecer tu contraseña. Introduce este código para continuar. Caduca en 15 minutos.",
		Code:  code,
	})
}

func (s *smtpMailService) SendShipmentStatus(to, tracking, status string) error {
	return s.send(to, "Actualización de tu envío "+tracking, mailData{
		Title: "Tu envío " + tracking,
		Body:  "El estado de tu envío ha cambiado a: " + status + ".",
	})
}

func (s *smtpMailService) send(to, subject string, data mailData) error {
	// Modo dev: sin SMTP configurado el correo se vuelca al log y no falla.
	if s.cfg.Host == "" {
		zap.L().Info("SMTP sin configurar, correo volcado a consola",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("code", data.Code))
		return nil
	}

	var body bytes.Buffer
	if err := s.tpl.Execute(&body, data); err != nil {
		return err
	}

	msg := []byte("From: BBExpress <" + s.cfg.From + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + body.String())

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg)
}
