package services

import (
	"crypto/tls"
	"fmt"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/config"
	"gopkg.in/gomail.v2"
)

type EmailService struct {
	config *config.Config
}

func NewEmailService(config *config.Config) *EmailService {
	return &EmailService{config: config}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	return d.DialAndSend(m)
}

func (s *EmailService) SendWelcomeEmail(email, firstName string) error {
	subject := "Bienvenido a ChoriFans"
	body := fmt.Sprintf(`
		<h2>Bienvenido a ChoriFans, %s!</h2>
		<p>Tu cuenta ya esta lista. Entra, busca tu parrilla favorita y
		dejale de 1 a 5 choripanes.</p>
		<p>El equipo de ChoriFans</p>
	`, firstName)

	return s.SendEmail(email, subject, body)
}

func (s *EmailService) SendPasswordResetEmail(email, resetToken, baseURL string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", baseURL, resetToken)

	subject := "Restablecer tu contrasena de ChoriFans"
	body := fmt.Sprintf(`
		<h2>Restablecer contrasena</h2>
		<p>Recibimos un pedido para restablecer la contrasena de la cuenta
		asociada a <strong>%s</strong>.</p>
		<p><a href="%s">Hace clic aca para elegir una nueva contrasena</a></p>
		<p>O copia este enlace en tu navegador:</p>
		<p>%s</p>
		<p>El enlace vence en 1 hora. Si no pediste este cambio, ignora este
		correo.</p>
	`, email, resetLink, resetLink)

	return s.SendEmail(email, subject, body)
}
