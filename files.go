package auth

import (
	"embed"
)

//go:embed mails
var mailsFS embed.FS

// GetMailsFS returns the embedded transactional mail templates.
func GetMailsFS() embed.FS {
	return mailsFS
}
