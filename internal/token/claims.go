package token

import "github.com/golang-jwt/jwt/v5"

// CallerType distinguishes the kinds of sessions the platform issues.
// Employee sessions are authorized through the permission profile; the
// portal caller types are scoped by business logic downstream instead.
type CallerType string

const (
	CallerEmployee    CallerType = "employee"
	CallerClient      CallerType = "client"
	CallerAccount     CallerType = "account"
	CallerDistributor CallerType = "distributor"
)

// Trusted reports whether the caller type skips the permission check.
func (t CallerType) Trusted() bool {
	switch t {
	case CallerClient, CallerAccount, CallerDistributor:
		return true
	default:
		return false
	}
}

// Claims is the only supported JWT claims shape for this service.
// User carries the caller identity: an employee email or an
// account/distributor folio. An absent Type means employee.
type Claims struct {
	jwt.RegisteredClaims

	User string     `json:"user,omitempty"`
	Type CallerType `json:"type,omitempty"`
}

// Caller resolves the effective caller type, defaulting to employee.
func (c Claims) Caller() CallerType {
	if c.Type == "" {
		return CallerEmployee
	}
	return c.Type
}

// FirstAudience returns the single audience the issuance side binds web
// sessions to, or "" when the token carries none.
func (c Claims) FirstAudience() string {
	if len(c.Audience) == 0 {
		return ""
	}
	return c.Audience[0]
}
