package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewContactService_NotConfigured(t *testing.T) {
	assert.Nil(t, NewContactService(nil, nil, []string{"me@example.com"}))
	assert.Nil(t, NewContactService(&MockMailer{}, nil, nil))
}

func TestContactService_Send(t *testing.T) {
	ctx := context.Background()
	mailer := &MockMailer{}
	notifier := &MockNotifier{}
	service := NewContactService(mailer, notifier, []string{"me@example.com"})

	mailer.On("Send", ctx, mock.MatchedBy(func(email Email) bool {
		return email.ReplyTo == "visitor@example.com" &&
			email.Subject == "[Contact] Hiring" &&
			assert.ObjectsAreEqual([]string{"me@example.com"}, email.To) &&
			strings.Contains(email.HTML, "&lt;b&gt;hello&lt;/b&gt;")
	})).Return(nil)
	notifier.On("Notify", ctx, mock.AnythingOfType("string")).Return(errors.New("twilio down"))

	err := service.Send(ctx, ContactMessage{
		Name:    "Visitor",
		Email:   " Visitor@Example.com ",
		Subject: "Hiring",
		Message: "<b>hello</b>",
	})
	require.NoError(t, err, "a failed SMS alert does not fail the request")

	mailer.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestContactService_SendDefaultSubject(t *testing.T) {
	ctx := context.Background()
	mailer := &MockMailer{}
	service := NewContactService(mailer, nil, []string{"me@example.com"})

	mailer.On("Send", ctx, mock.MatchedBy(func(email Email) bool {
		return email.Subject == "[Contact] New message from your portfolio"
	})).Return(nil)

	require.NoError(t, service.Send(ctx, ContactMessage{Name: "V", Email: "v@example.com", Message: "hi"}))
	mailer.AssertExpectations(t)
}

func TestContactService_SendErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		msg   ContactMessage
		fails bool
		check func(t *testing.T, err error)
	}{
		{
			name:  "missing message",
			msg:   ContactMessage{Name: "V", Email: "v@example.com", Message: "   "},
			check: func(t *testing.T, err error) { assert.True(t, errs.IsValidation(err)) },
		},
		{
			name:  "bad email",
			msg:   ContactMessage{Name: "V", Email: "nope", Message: "hi"},
			check: func(t *testing.T, err error) { assert.True(t, errs.IsValidation(err)) },
		},
		{
			name:  "mailer failure",
			msg:   ContactMessage{Name: "V", Email: "v@example.com", Message: "hi"},
			fails: true,
			check: func(t *testing.T, err error) {
				assert.True(t, errs.IsInternal(err))
				assert.Equal(t, "Failed to send message", err.Error())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &MockMailer{}
			if tt.fails {
				mailer.On("Send", ctx, mock.Anything).Return(errors.New("smtp: 535 auth failed"))
			}
			service := NewContactService(mailer, nil, []string{"me@example.com"})

			err := service.Send(ctx, tt.msg)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
