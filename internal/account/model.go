package account

import (
	"strings"
	"time"
)

// Account is one authorized principal. Records are created out-of-band and are
// only ever read by the gateway.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	APIToken     string
	CreatedAt    time.Time
}

// NormalizeUsername maps a username to its stored form. Stored usernames are
// uppercase, so every lookup must go through this first.
func NormalizeUsername(username string) string {
	return strings.ToUpper(strings.TrimSpace(username))
}
