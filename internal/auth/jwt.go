package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hiredesk/hiredesk/internal/models"
	"github.com/hiredesk/hiredesk/internal/utils"
)

// Identity is what a verified token proves: who is calling and with
// which role.
type Identity struct {
	UserID string
	Role   models.UserRole
}

// TokenManager issues and verifies the signed bearer tokens the API
// hands out at register/login.
type TokenManager interface {
	Issue(userID string, role models.UserRole) (string, error)
	Verify(token string) (*Identity, error)
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type jwtManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) TokenManager {
	return &jwtManager{secret: []byte(secret), ttl: ttl}
}

func (m *jwtManager) Issue(userID string, role models.UserRole) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role: string(role),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", utils.E(utils.CodeInternal, "TokenManager.Issue", "failed to sign token", err)
	}
	return signed, nil
}

// Verify rejects malformed, expired, and tampered tokens alike with an
// UNAUTHORIZED error; the HMAC comparison inside the jwt library is
// constant time.
func (m *jwtManager) Verify(raw string) (*Identity, error) {
	const op = "TokenManager.Verify"

	claims := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || tok == nil || !tok.Valid {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid token", err)
	}
	if claims.Subject == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "missing subject", nil)
	}
	if !models.ValidRole(claims.Role) {
		return nil, utils.E(utils.CodeUnauthorized, op, "unknown role claim", nil)
	}

	return &Identity{UserID: claims.Subject, Role: models.UserRole(claims.Role)}, nil
}
