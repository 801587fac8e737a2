package auth

import (
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"
)

// Verifier validates HS256-signed bearer tokens issued by the external
// identity provider and extracts the subject identifier.
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a Verifier for the shared signing secret.
func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, eris.New("auth token secret is required")
	}

	return &Verifier{secret: []byte(secret)}, nil
}

// Subject validates the token and returns its subject claim.
func (v *Verifier) Subject(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", eris.New("token is required")
	}

	parsed, err := jwt.Parse(trimmed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, eris.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", eris.Wrap(err, "parsing bearer token")
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", eris.Wrap(err, "reading token subject")
	}

	if strings.TrimSpace(subject) == "" {
		return "", eris.New("token subject is empty")
	}

	return subject, nil
}

// Issue signs a token for the provided subject. Used by tooling and tests;
// production tokens come from the identity provider.
func (v *Verifier) Issue(subject string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", eris.New("subject is required")
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", eris.Wrap(err, "signing token")
	}

	return token, nil
}
