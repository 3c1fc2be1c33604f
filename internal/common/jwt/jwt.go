// Package jwt 签发与校验员工令牌
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// 令牌类型
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenType    = errors.New("unexpected token type")
)

// Claims 令牌中携带员工身份与权限
type Claims struct {
	EmployeeID int64  `json:"employee_id"`
	Username   string `json:"username"`
	Privilege  string `json:"privilege"`
	TokenType  string `json:"token_type"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret            string
	AccessExpireTime  time.Duration
	RefreshExpireTime time.Duration
	Issuer            string
}

// TokenPair ExpiresAt 为访问令牌过期的 Unix 秒
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Manager 使用 HS256 签名
type Manager struct {
	config *Config
	parser *jwt.Parser
}

func NewManager(config *Config) *Manager {
	return &Manager{
		config: config,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(config.Issuer),
			jwt.WithIssuedAt(),
		),
	}
}

// GenerateTokenPair 同时签发访问令牌与刷新令牌
func (m *Manager) GenerateTokenPair(employeeID int64, username, privilege string) (*TokenPair, error) {
	now := time.Now()
	accessExpireAt := now.Add(m.config.AccessExpireTime)

	access, err := m.sign(employeeID, username, privilege, TokenTypeAccess, now, accessExpireAt)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(employeeID, username, privilege, TokenTypeRefresh, now, now.Add(m.config.RefreshExpireTime))
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: accessExpireAt.Unix()}, nil
}

func (m *Manager) sign(employeeID int64, username, privilege, tokenType string, now, expireAt time.Time) (string, error) {
	claims := &Claims{
		EmployeeID: employeeID,
		Username:   username,
		Privilege:  privilege,
		TokenType:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expireAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.config.Secret))
}

// ParseAccessToken 只接受访问令牌
func (m *Manager) ParseAccessToken(token string) (*Claims, error) {
	return m.parse(token, TokenTypeAccess)
}

// ParseRefreshToken 只接受刷新令牌
func (m *Manager) ParseRefreshToken(token string) (*Claims, error) {
	return m.parse(token, TokenTypeRefresh)
}

func (m *Manager) parse(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}
	_, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(m.config.Secret), nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, ErrTokenInvalid
	case claims.TokenType != tokenType:
		return nil, ErrTokenType
	}
	return claims, nil
}
