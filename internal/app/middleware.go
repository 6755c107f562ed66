package app

import (
	"fmt"

	httpMW "github.com/yungbote/coursegen-backend/internal/http/middleware"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) (Middleware, error) {
	log.Info("Wiring middleware...")
	auth, err := httpMW.NewAuthMiddleware(log, httpMW.AuthConfig{
		HMACSecret:      cfg.Auth.JWTSecret,
		RSAPublicKeyPEM: cfg.Auth.JWTPublicKeyPEM,
		EmailClaim:      cfg.Auth.EmailClaim,
		CookieName:      cfg.Auth.CookieName,
		Issuer:          cfg.Auth.JWTIssuer,
	})
	if err != nil {
		return Middleware{}, fmt.Errorf("init auth middleware: %w", err)
	}
	return Middleware{Auth: auth}, nil
}
