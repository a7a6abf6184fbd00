package security

import (
	"time"

	"github.com/cwrk-planet/chat-service/internal/errs"

	"github.com/golang-jwt/jwt"
)

// Используется SigningMethodHS256; секрет общий для всего сервиса
type TokenManager struct {
	secret    []byte
	issuer    string
	ttl       time.Duration
	clockSkew time.Duration
}

func NewTokenManager(secret, issuer string, ttl, clockSkew time.Duration) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		issuer:    issuer,
		ttl:       ttl,
		clockSkew: clockSkew,
	}
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

type AccessClaims struct {
	jwt.StandardClaims // включает поля Issuer, ExpiresAt, NotBefore, IssuedAt, Subject
}

// SignAccessToken выпускает JWT с sub=userID и exp=now+ttl
func (m *TokenManager) SignAccessToken(userID string, now time.Time) (string, error) {
	claims := AccessClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  now.Unix(),
			NotBefore: now.Add(-m.clockSkew).Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.secret)
}

// ParseAndValidate возвращает userID (sub) валидного токена.
// Любая причина отказа схлопывается в errs.ErrInvalidToken:
// наружу не должно утекать, какой именно шаг проверки не прошёл.
func (m *TokenManager) ParseAndValidate(tokenStr string) (string, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errs.ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errs.ErrInvalidToken
	}

	if !claims.VerifyIssuer(m.issuer, true) {
		return "", errs.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", errs.ErrInvalidToken
	}

	return claims.Subject, nil
}
