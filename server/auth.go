package server

import (
	"net/http"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo"
	echomw "github.com/labstack/echo/middleware"
)

// Claims is the JWT payload blendserver expects on every request: a
// bearer token identifying which tenant is submitting the blend job, so
// server-side logs and future rate limiting can attribute work to it.
type Claims struct {
	Tenant string `json:"tenant"`
	jwt.StandardClaims
}

// jwtMiddleware wires echo's own JWT middleware (labstack/echo's
// middleware package embeds dgrijalva/jwt-go for token parsing) with the
// custom Claims type above, so handlers can pull the authenticated
// tenant out of the echo.Context.
func jwtMiddleware(secret string) echo.MiddlewareFunc {
	return echomw.JWTWithConfig(echomw.JWTConfig{
		SigningKey: []byte(secret),
		Claims:     &Claims{},
	})
}

func tenantFromContext(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return ""
	}
	return claims.Tenant
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: message})
}
