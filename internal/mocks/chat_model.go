package mocks

import (
	"context"

	"github.com/athleticore/backend/internal/models"
	"github.com/athleticore/backend/internal/service"
)

// ChatModel is a scripted stand-in for the model gateway. Replies are
// returned in order; Err, when set, wins over replies.
type ChatModel struct {
	Replies []string
	Err     error

	Calls        int
	LastSystem   string
	LastMessages []service.ChatMessage
}

var _ service.ChatModel = (*ChatModel)(nil)

func (m *ChatModel) Complete(ctx context.Context, systemPrompt string, messages []service.ChatMessage) (string, error) {
	m.Calls++
	m.LastSystem = systemPrompt
	m.LastMessages = messages

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) == 0 {
		return "", nil
	}
	reply := m.Replies[0]
	if len(m.Replies) > 1 {
		m.Replies = m.Replies[1:]
	}
	return reply, nil
}

// EmailService is a no-op email double that records sends.
type EmailService struct {
	Sent          []string
	TempPasswords []string
}

var _ service.IEmailService = (*EmailService)(nil)

func (m *EmailService) SendEmail(to, subject, body string) error {
	m.Sent = append(m.Sent, to)
	return nil
}

func (m *EmailService) SendWelcomeEmail(user *models.User) error {
	return m.SendEmail(user.Email, "welcome", "")
}

func (m *EmailService) SendPasswordResetEmail(user *models.User, tempPassword string) error {
	m.TempPasswords = append(m.TempPasswords, tempPassword)
	return m.SendEmail(user.Email, "password reset", "")
}
