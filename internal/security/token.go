package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"agencydesk-backend/internal/domain"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
	ErrWrongTokenPurpose = errors.New("wrong token purpose for this endpoint")
)

// TokenPurpose discriminates what a token may be used for. A token minted
// for one purpose is rejected when presented for another, even if the
// signature and expiry are otherwise valid.
type TokenPurpose string

const (
	PurposeInvitation TokenPurpose = "invitation"
	PurposeSession    TokenPurpose = "session"
)

// IdentityDomain separates the two identity universes: internal org members
// and external client-portal users.
type IdentityDomain string

const (
	DomainInternal IdentityDomain = "internal"
	DomainPortal   IdentityDomain = "portal"
)

// InviteClaims is the closed claim set of an invitation token. Role and
// capabilities are embedded at issue time so activation cannot escalate
// privilege relative to what the inviter granted.
type InviteClaims struct {
	Purpose      TokenPurpose        `json:"purpose"`
	Email        string              `json:"email"`
	Domain       IdentityDomain      `json:"domain"`
	Role         string              `json:"role"`
	Capabilities domain.Capabilities `json:"capabilities"`
	InviterID    string              `json:"inviter_id"`
	OrgID        string              `json:"org_id"`
	ClientID     string              `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

// SessionClaims is the closed claim set of a session token.
type SessionClaims struct {
	Purpose   TokenPurpose   `json:"purpose"`
	SubjectID string         `json:"subject_id"`
	Domain    IdentityDomain `json:"domain"`
	OrgID     string         `json:"org_id"`
	ClientID  string         `json:"client_id,omitempty"`
	Role      string         `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	IssueInvitation(claims InviteClaims, ttl time.Duration) (string, error)
	IssueSession(claims SessionClaims, ttl time.Duration) (string, error)
	VerifyInvitation(token string) (*InviteClaims, error)
	VerifySession(token string) (*SessionClaims, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
	}
}

func (m *tokenManager) IssueInvitation(claims InviteClaims, ttl time.Duration) (string, error) {
	claims.Purpose = PurposeInvitation
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.Email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "agencydesk-identity",
		Audience:  jwt.ClaimStrings{"account-setup"},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) IssueSession(claims SessionClaims, ttl time.Duration) (string, error) {
	claims.Purpose = PurposeSession
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.SubjectID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "agencydesk-identity",
		Audience:  jwt.ClaimStrings{"api-access"},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) VerifyInvitation(tokenString string) (*InviteClaims, error) {
	claims := &InviteClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeInvitation {
		return nil, ErrWrongTokenPurpose
	}
	if claims.Email == "" || claims.OrgID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Domain != DomainInternal && claims.Domain != DomainPortal {
		return nil, ErrInvalidToken
	}
	if claims.Domain == DomainPortal && claims.ClientID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *tokenManager) VerifySession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeSession {
		return nil, ErrWrongTokenPurpose
	}
	if claims.SubjectID == "" || claims.OrgID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Domain != DomainInternal && claims.Domain != DomainPortal {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *tokenManager) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}

	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
