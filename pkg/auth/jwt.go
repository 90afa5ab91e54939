package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/config"
)

const bearerPrefix = "Bearer "

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Reason is why a request was not authenticated. ReasonNone means it was.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissingHeader
	ReasonMalformedHeader
	ReasonEmptyToken
	ReasonExpired
	ReasonInvalid
	ReasonMissingSubjectClaim
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMissingHeader:
		return "missing_header"
	case ReasonMalformedHeader:
		return "malformed_header"
	case ReasonEmptyToken:
		return "empty_token"
	case ReasonExpired:
		return "expired"
	case ReasonInvalid:
		return "invalid"
	case ReasonMissingSubjectClaim:
		return "missing_subject_claim"
	}
	return "unknown"
}

type Outcome struct {
	Subject string
	Reason  Reason
	// Err is the verification error behind ReasonInvalid.
	Err error
}

func (o Outcome) Authenticated() bool {
	return o.Reason == ReasonNone
}

// tokenClaims accepts both the user_id claim and the registered sub claim.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID any `json:"user_id,omitempty"`
}

var insecureSecretOnce sync.Once

type Authenticator struct {
	cfg    config.JWTConfig
	parser *jwt.Parser
}

// NewAuthenticator logs a warning, once per process, when the documented
// default secret is configured.
func NewAuthenticator(cfg config.JWTConfig, log *zap.Logger) *Authenticator {
	if cfg.UsesInsecureDefault() {
		insecureSecretOnce.Do(func() {
			log.Warn("using default JWT secret key - this is insecure for production",
				zap.String("env", "JWT_SECRET"))
		})
	}
	return &Authenticator{
		cfg:    cfg,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Authenticate checks the raw Authorization header values. An empty slice
// means the header was not sent.
func (a *Authenticator) Authenticate(values []string) Outcome {
	if len(values) == 0 {
		return Outcome{Reason: ReasonMissingHeader}
	}

	header := values[0]
	// net/http strips trailing whitespace, so "Bearer " arrives as "Bearer".
	if header == strings.TrimSpace(bearerPrefix) {
		return Outcome{Reason: ReasonEmptyToken}
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return Outcome{Reason: ReasonMalformedHeader}
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return Outcome{Reason: ReasonEmptyToken}
	}

	claims, err := a.verify(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return Outcome{Reason: ReasonExpired, Err: err}
		}
		return Outcome{Reason: ReasonInvalid, Err: err}
	}

	subject := claims.subject()
	if subject == "" {
		return Outcome{Reason: ReasonMissingSubjectClaim}
	}
	return Outcome{Subject: subject}
}

func (a *Authenticator) verify(tokenString string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := a.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (c *tokenClaims) subject() string {
	switch v := c.UserID.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return strings.TrimSpace(c.Subject)
}

// GenerateToken signs an HS256 token carrying subject in both user_id and
// sub. A zero ttl produces a token without expiry.
func (a *Authenticator) GenerateToken(subject string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   a.cfg.Issuer,
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID: subject,
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}
