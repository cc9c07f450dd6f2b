package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager проверяет access токены, выпущенные платформенным сервисом
// авторизации. Выпуск токенов здесь не ведётся, только проверка подписи
// и извлечение клеймов.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// ParseAccess извлекает userID и companyID из access токена.
// Клейм company_id опционален: для токенов без него компания
// разрешается по владельцу на уровне middleware.
func (m *TokenManager) ParseAccess(token string) (uuid.UUID, uuid.UUID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, uuid.Nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	companyID := uuid.Nil
	if raw, ok := claims["company_id"].(string); ok {
		if parsed, err := uuid.Parse(raw); err == nil {
			companyID = parsed
		}
	}

	return userID, companyID, nil
}
