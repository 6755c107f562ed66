package middleware

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type AuthConfig struct {
	// HMACSecret verifies HS256 tokens.
	HMACSecret string
	// RSAPublicKeyPEM verifies RS256 tokens issued by the auth provider.
	RSAPublicKeyPEM string
	EmailClaim      string
	CookieName      string
	Issuer          string
}

var (
	ErrMissingToken  = errors.New("missing or invalid token")
	ErrNoEmailClaim  = errors.New("token carries no email")
	ErrNoVerifierKey = errors.New("AUTH_JWT_SECRET or AUTH_JWT_PUBLIC_KEY_PEM required")
)

type AuthMiddleware struct {
	log     *logger.Logger
	cfg     AuthConfig
	rsaKey  *rsa.PublicKey
	methods []string
}

func NewAuthMiddleware(log *logger.Logger, cfg AuthConfig) (*AuthMiddleware, error) {
	am := &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware"), cfg: cfg}
	if strings.TrimSpace(cfg.EmailClaim) == "" {
		am.cfg.EmailClaim = "email"
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		am.cfg.CookieName = "__session"
	}
	if pem := strings.TrimSpace(cfg.RSAPublicKeyPEM); pem != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return nil, fmt.Errorf("parse AUTH_JWT_PUBLIC_KEY_PEM: %w", err)
		}
		am.rsaKey = key
		am.methods = append(am.methods, jwt.SigningMethodRS256.Alg())
	}
	if cfg.HMACSecret != "" {
		am.methods = append(am.methods, jwt.SigningMethodHS256.Alg())
	}
	if len(am.methods) == 0 {
		return nil, ErrNoVerifierKey
	}
	return am, nil
}

// RequireAuth aborts with 401 unless the request carries a valid token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := am.identify(c)
		if err != nil {
			am.log.Debug("Rejected request", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "Unauthorized", "code": "unauthorized"},
			})
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// OptionalAuth attaches the identity when the token is valid and never aborts.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := am.identify(c); err == nil {
			c.Request = c.Request.WithContext(ctxutil.WithIdentity(c.Request.Context(), id))
		} else if !errors.Is(err, ErrMissingToken) {
			am.log.Debug("Ignoring invalid token", "path", c.FullPath(), "error", err)
		}
		c.Next()
	}
}

func (am *AuthMiddleware) identify(c *gin.Context) (*ctxutil.Identity, error) {
	raw := am.extractToken(c)
	if raw == "" {
		return nil, ErrMissingToken
	}
	return am.Verify(raw)
}

// Verify parses and validates a raw JWT and returns the caller it names.
func (am *AuthMiddleware) Verify(raw string) (*ctxutil.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(am.methods),
		jwt.WithLeeway(30 * time.Second),
	}
	if am.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(am.cfg.Issuer))
	}
	tok, err := jwt.Parse(raw, am.keyFunc, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token claims")
	}

	email := strClaim(claims, am.cfg.EmailClaim)
	if email == "" {
		email = strClaim(claims, "primary_email")
	}
	if email == "" {
		return nil, ErrNoEmailClaim
	}
	sub, _ := claims.GetSubject()
	return &ctxutil.Identity{Subject: sub, Email: strings.ToLower(email)}, nil
}

func (am *AuthMiddleware) keyFunc(t *jwt.Token) (any, error) {
	switch t.Method.(type) {
	case *jwt.SigningMethodRSA:
		if am.rsaKey == nil {
			return nil, errors.New("RS256 not configured")
		}
		return am.rsaKey, nil
	case *jwt.SigningMethodHMAC:
		if am.cfg.HMACSecret == "" {
			return nil, errors.New("HS256 not configured")
		}
		return []byte(am.cfg.HMACSecret), nil
	default:
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
}

func (am *AuthMiddleware) extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if qToken := strings.TrimSpace(c.Query("token")); qToken != "" {
		return qToken
	}
	if cookie, err := c.Cookie(am.cfg.CookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

func strClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
