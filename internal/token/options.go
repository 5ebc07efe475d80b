package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Algorithm is the closed set of signing algorithms tokens may declare.
type Algorithm string

const (
	AlgHS256 Algorithm = "HS256"
	AlgHS384 Algorithm = "HS384"
	AlgHS512 Algorithm = "HS512"
	AlgRS256 Algorithm = "RS256"
	AlgRS384 Algorithm = "RS384"
	AlgRS512 Algorithm = "RS512"
	AlgES256 Algorithm = "ES256"
	AlgES384 Algorithm = "ES384"
	AlgES512 Algorithm = "ES512"
	AlgNone  Algorithm = "none"
)

var signingMethods = map[Algorithm]jwt.SigningMethod{
	AlgHS256: jwt.SigningMethodHS256,
	AlgHS384: jwt.SigningMethodHS384,
	AlgHS512: jwt.SigningMethodHS512,
	AlgRS256: jwt.SigningMethodRS256,
	AlgRS384: jwt.SigningMethodRS384,
	AlgRS512: jwt.SigningMethodRS512,
	AlgES256: jwt.SigningMethodES256,
	AlgES384: jwt.SigningMethodES384,
	AlgES512: jwt.SigningMethodES512,
}

// Known reports whether a belongs to the enumerated algorithm set.
func (a Algorithm) Known() bool {
	if a == AlgNone {
		return true
	}
	_, ok := signingMethods[a]
	return ok
}

// HMAC reports whether a is signable with the shared process secret.
func (a Algorithm) HMAC() bool {
	switch a {
	case AlgHS256, AlgHS384, AlgHS512:
		return true
	default:
		return false
	}
}

// SignOptions drives token creation. Algorithm is mandatory; everything
// else falls back to codec defaults when zero.
type SignOptions struct {
	Algorithm Algorithm
	ExpiresIn time.Duration
	NotBefore time.Duration
	Audience  string
	Issuer    string
	Subject   string
	JWTID     string
	KeyID     string
}

// VerifyOptions drives token validation. Algorithms is an explicit
// allow-list; tokens declaring anything else are rejected before the
// signature is checked, closing the algorithm-confusion hole. Empty means
// the fixed platform policy of HS256 only.
type VerifyOptions struct {
	Algorithms []Algorithm
	Audience   string
}

// FieldViolation names one option field and the constraints it broke.
type FieldViolation struct {
	Field      string
	Violations []string
}

// ValidationError enumerates every malformed option field. It is returned
// before any cryptographic work happens.
type ValidationError struct {
	Fields []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, strings.Join(f.Violations, ", ")))
	}
	return "token: invalid sign options: " + strings.Join(parts, "; ")
}

// Validate checks every field against its declared constraints and
// collects all failures instead of stopping at the first.
func (o SignOptions) Validate() error {
	var fields []FieldViolation

	switch {
	case o.Algorithm == "":
		fields = append(fields, FieldViolation{Field: "algorithm", Violations: []string{"is required"}})
	case !o.Algorithm.Known():
		fields = append(fields, FieldViolation{Field: "algorithm", Violations: []string{"must be one of the enumerated signing algorithms"}})
	case o.Algorithm == AlgNone:
		fields = append(fields, FieldViolation{Field: "algorithm", Violations: []string{"unsigned tokens are not issued"}})
	}

	if o.ExpiresIn < 0 {
		fields = append(fields, FieldViolation{Field: "expiresIn", Violations: []string{"must not be negative"}})
	}
	if o.NotBefore < 0 {
		fields = append(fields, FieldViolation{Field: "notBefore", Violations: []string{"must not be negative"}})
	}
	if o.ExpiresIn > 0 && o.NotBefore > 0 && o.NotBefore >= o.ExpiresIn {
		fields = append(fields, FieldViolation{Field: "notBefore", Violations: []string{"must precede expiresIn"}})
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (o VerifyOptions) methodNames() []string {
	algs := o.Algorithms
	if len(algs) == 0 {
		// Fixed platform policy: web and API sessions are HS256.
		algs = []Algorithm{AlgHS256}
	}
	names := make([]string, 0, len(algs))
	for _, a := range algs {
		names = append(names, string(a))
	}
	return names
}

func (o VerifyOptions) allows(alg string) bool {
	for _, name := range o.methodNames() {
		if name == alg {
			return true
		}
	}
	return false
}
