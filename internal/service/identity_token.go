package service

import (
	"errors"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrIdentitySecretMissing = errors.New("identity token secret missing")
	ErrIdentityTokenInvalid  = errors.New("identity token invalid")
)

// IdentityClaims 上游认证层签发的身份声明
type IdentityClaims struct {
	UserID  uint `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// Actor 转换为服务层调用方身份
func (c *IdentityClaims) Actor() Actor {
	return Actor{UserID: c.UserID, IsAdmin: c.IsAdmin}
}

// IdentityTokenService 身份令牌签发与校验
type IdentityTokenService struct {
	secret []byte
	issuer string
}

// NewIdentityTokenService 创建身份令牌服务
func NewIdentityTokenService(cfg config.JWTConfig) *IdentityTokenService {
	return &IdentityTokenService{
		secret: []byte(strings.TrimSpace(cfg.SecretKey)),
		issuer: strings.TrimSpace(cfg.Issuer),
	}
}

// Configured 是否配置了签名密钥
func (s *IdentityTokenService) Configured() bool {
	return s != nil && len(s.secret) > 0
}

// GenerateToken 生成 HS256 身份令牌，供种子数据与联调使用
func (s *IdentityTokenService) GenerateToken(userID uint, isAdmin bool, ttl time.Duration) (string, time.Time, error) {
	if !s.Configured() {
		return "", time.Time{}, ErrIdentitySecretMissing
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := IdentityClaims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken 解析并校验身份令牌
func (s *IdentityTokenService) ParseToken(tokenString string) (*IdentityClaims, error) {
	if !s.Configured() {
		return nil, ErrIdentitySecretMissing
	}
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}
	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrIdentityTokenInvalid, err)
	}
	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrIdentityTokenInvalid
	}
	return claims, nil
}
