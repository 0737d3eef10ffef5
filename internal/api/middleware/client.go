package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// ClientCookie carries the signed client identity.
	ClientCookie = "dkv3_client"

	clientCookieMaxAge = 365 * 24 * time.Hour
)

// Client identifies the browser behind a request. The identity is a uuid
// signed into an HS256 token and kept in a cookie; a missing or invalid
// cookie gets a fresh identity.
func Client(secret string, secure bool) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := clientFromCookie(c, key)
			if !ok {
				id = uuid.NewString()
				token, err := signClient(id, key)
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     ClientCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(clientCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set("client_id", id)
			return next(c)
		}
	}
}

func clientFromCookie(c echo.Context, key []byte) (string, bool) {
	cookie, err := c.Cookie(ClientCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims := jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	})
	if err != nil || !tkn.Valid {
		return "", false
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func signClient(id string, key []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  id,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}
