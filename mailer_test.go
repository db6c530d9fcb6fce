package auth_test

import (
	"bytes"
	"html/template"
	"testing"

	auth "github.com/Harsh3341/edusync-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPMailer(t *testing.T) {
	mailer, err := auth.NewSMTPMailer(auth.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		User: "noreply@example.com",
	})
	require.NoError(t, err)
	assert.NotNil(t, mailer)
}

func TestActivationMailTemplate(t *testing.T) {
	templates, err := template.ParseFS(auth.GetMailsFS(), "mails/*.html")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, auth.ActivationMailTemplate+".html", map[string]any{
		"user":           map[string]any{"name": "Ada"},
		"activationCode": "4217",
	})
	require.NoError(t, err)

	rendered := buf.String()
	assert.Contains(t, rendered, "Hello Ada")
	assert.Contains(t, rendered, "4217")
	assert.Contains(t, rendered, "10 minutes")
}
