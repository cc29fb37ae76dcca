package identity

import (
	"errors"
	"strings"
)

// Role is the caller's access level. Every request carries exactly one.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	RoleGod   Role = "GOD"
)

var (
	ErrMissingIdentity = errors.New("missing user information in headers")
	ErrUnknownRole     = errors.New("unknown role")
)

// Caller is the canonical per-request identity. It is resolved once at the
// HTTP boundary and passed explicitly into every service call; nothing below
// the controllers reads identity from ambient state.
type Caller struct {
	UserID      string
	Role        Role
	ProviderSub string
}

// ParseRole canonicalizes a raw role string. Stored and supplied roles may
// differ in case or padding, so comparison happens on the trimmed upper form.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleGod:
		return RoleGod, nil
	default:
		return "", ErrUnknownRole
	}
}

// FromHeaders builds a Caller from the upstream-verified identity headers.
// All three values are required; absence of any rejects the request.
func FromHeaders(userID, role, providerSub string) (*Caller, error) {
	userID = strings.TrimSpace(userID)
	providerSub = strings.TrimSpace(providerSub)

	if userID == "" || strings.TrimSpace(role) == "" || providerSub == "" {
		return nil, ErrMissingIdentity
	}

	parsed, err := ParseRole(role)
	if err != nil {
		return nil, err
	}

	return &Caller{
		UserID:      userID,
		Role:        parsed,
		ProviderSub: providerSub,
	}, nil
}
