package auth

import (
	"errors"
	"strings"
)

// BearerPrefix is the literal, case-sensitive scheme prefix of the
// Authorization header.
const BearerPrefix = "Bearer "

// ErrUnauthenticated is the single error a rejected bearer token maps to.
var ErrUnauthenticated = errors.New("unauthenticated")

// HeaderKind classifies an Authorization header value.
type HeaderKind int

const (
	// NoHeader means the header was absent or empty.
	NoHeader HeaderKind = iota
	// MalformedScheme means the value does not start with BearerPrefix or
	// carries nothing after it.
	MalformedScheme
	// Token means a candidate bearer token was extracted.
	Token
)

func (k HeaderKind) String() string {
	switch k {
	case NoHeader:
		return "no_header"
	case MalformedScheme:
		return "malformed_scheme"
	case Token:
		return "token"
	default:
		return "unknown"
	}
}

// Authorization is the parsed form of an Authorization header.
type Authorization struct {
	Kind  HeaderKind
	Token string
}

// ParseAuthorization extracts the bearer token as the substring after the
// "Bearer " prefix. The token is not trimmed or otherwise altered.
func ParseAuthorization(value string) Authorization {
	if value == "" {
		return Authorization{Kind: NoHeader}
	}
	token, ok := strings.CutPrefix(value, BearerPrefix)
	if !ok || token == "" {
		return Authorization{Kind: MalformedScheme}
	}
	return Authorization{Kind: Token, Token: token}
}
