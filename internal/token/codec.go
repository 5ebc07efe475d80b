package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pecadorcelestial/panda-proxy/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failure taxonomy. Every failure is terminal for the
// request; the caller must re-authenticate, nothing here is retried.
var (
	ErrSigning              = errors.New("token: signing failed")
	ErrTokenExpired         = errors.New("token: expired")
	ErrTokenNotYetValid     = errors.New("token: not yet valid")
	ErrTokenMalformed       = errors.New("token: malformed or bad signature")
	ErrUnsupportedAlgorithm = errors.New("token: algorithm not allowed")
	ErrAudienceMismatch     = errors.New("token: audience mismatch")
)

// Leeway absorbs clock skew between this process and the issuer.
const clockSkewLeeway = 30 * time.Second

// Codec creates and validates signed session tokens. It isolates every
// cryptographic/library concern; callers only see Claims and the error
// taxonomy above. A signed token is immutable: Verify never mutates it,
// it only produces a decoded claims view or an error.
type Codec struct {
	secret     []byte
	issuer     string
	audience   string
	defaultTTL time.Duration
	now        func() time.Time
}

func NewCodec(cfg config.AuthConfig) (*Codec, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Codec{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		audience:   cfg.JWTAudience,
		defaultTTL: ttl,
		now:        time.Now,
	}, nil
}

// Sign validates opts field by field and only then signs. Validation
// failures short-circuit with a *ValidationError before any cryptographic
// call is made.
func (c *Codec) Sign(claims Claims, opts SignOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	if !opts.Algorithm.HMAC() {
		// Only the shared HMAC secret is configured; asymmetric
		// algorithms are enumerable but not issuable here.
		return "", fmt.Errorf("%w: %s requires an asymmetric key", ErrSigning, opts.Algorithm)
	}

	now := c.now().UTC()
	ttl := opts.ExpiresIn
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if opts.NotBefore > 0 {
		claims.NotBefore = jwt.NewNumericDate(now.Add(opts.NotBefore))
	}

	issuer := opts.Issuer
	if issuer == "" {
		issuer = c.issuer
	}
	claims.Issuer = issuer

	audience := opts.Audience
	if audience == "" {
		audience = c.audience
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	if opts.Subject != "" {
		claims.Subject = opts.Subject
	}

	jti := opts.JWTID
	if jti == "" {
		jti = uuid.NewString()
	}
	claims.ID = jti

	t := jwt.NewWithClaims(signingMethods[opts.Algorithm], claims)
	if opts.KeyID != "" {
		t.Header["kid"] = opts.KeyID
	}

	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

// Verify checks the raw token against the allow-list in opts and returns
// the decoded claims. The declared algorithm is checked against the
// allow-list before the signature, so a token signed with a disallowed
// algorithm is rejected even when its signature would verify.
func (c *Codec) Verify(raw string, opts VerifyOptions) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrTokenMalformed
	}

	unverified, _, err := jwt.NewParser().ParseUnverified(raw, &Claims{})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	alg, _ := unverified.Header["alg"].(string)
	if !opts.allows(alg) {
		return Claims{}, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(opts.methodNames()),
		jwt.WithLeeway(clockSkewLeeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)

	var claims Claims
	if _, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}); err != nil {
		return Claims{}, mapParseError(err)
	}

	if opts.Audience != "" && !hasAudience(claims.Audience, opts.Audience) {
		return Claims{}, ErrAudienceMismatch
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return fmt.Errorf("%w: %v", ErrTokenNotYetValid, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}

func hasAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
