package middleware

import (
	"net/http"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const OperatorRole = "operator"

// ExtractOperatorFromJWT copies the subject of a validated operator token into
// the request context. Tokens with another role are left out.
func ExtractOperatorFromJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwtv5.Token)
			if !ok || token == nil {
				return next(c)
			}

			claims, ok := token.Claims.(jwtv5.MapClaims)
			if !ok {
				return next(c)
			}

			if role, _ := claims["role"].(string); role != OperatorRole {
				return next(c)
			}

			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				return next(c)
			}

			c.SetRequest(c.Request().WithContext(ContextWithOperator(c.Request().Context(), sub)))
			return next(c)
		}
	}
}

// RequireOperator rejects requests that carry no operator identity.
func RequireOperator() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := GetOperatorFromContext(c.Request().Context()); err != nil {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "operator token required"})
			}
			return next(c)
		}
	}
}

// IssueOperatorToken signs an HS256 operator token for name.
func IssueOperatorToken(key, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.MapClaims{
		"sub":  name,
		"role": OperatorRole,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(key))
}
