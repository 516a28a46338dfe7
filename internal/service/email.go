package service

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/athleticore/backend/config"
	"github.com/athleticore/backend/internal/models"
)

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
}

var _ IEmailService = (*EmailService)(nil)

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.EmailFrom,
	}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	if s.smtpHost == "" {
		log.Printf("SMTP not configured, skipping email to %s", to)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s", s.fromEmail, to, subject, body)

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	addr := s.smtpHost + ":" + s.smtpPort

	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *EmailService) SendWelcomeEmail(user *models.User) error {
	subject := "Welcome to Athleticore"
	body := fmt.Sprintf("Hi %s,\n\nWelcome to Athleticore! Chat with the coach to set up your TDEE profile and start logging your meals.\n\nStay strong,\nThe Athleticore team", user.Username)
	return s.SendEmail(user.Email, subject, body)
}

func (s *EmailService) SendPasswordResetEmail(user *models.User, tempPassword string) error {
	subject := "Your Athleticore temporary password"
	body := fmt.Sprintf("Hi %s,\n\nYou requested a password reset for your Athleticore account.\n\nYour temporary password is:\n\n    %s\n\nUse it to log in, then change your password from the settings screen.\nIf you did not request this, please ignore this email.\n\nStay strong,\nThe Athleticore team", user.Username, tempPassword)
	return s.SendEmail(user.Email, subject, body)
}
