package mailer

import (
	"embed"
	"errors"
)

const (
	FromName           = "Chapter"
	maxRetires         = 3
	InvitationTemplate = "user_invitation.tmpl"
)

//go:embed "templates"
var FS embed.FS

var ErrSendFailed = errors.New("failed to send email")

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
