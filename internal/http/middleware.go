package http

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/alsxui/provisioning-gateway/internal/metrics"
)

// Inbound gateway headers. The storefront plugin sends these on every call.
const (
	HeaderSecret = "X-Alsxui-Secret"
	HeaderAction = "X-Alsxui-Action"
)

// SharedSecretMiddleware admits requests proving they come from the order
// pipeline. The primary credential is the shared secret header, compared in
// constant time. When allowJWT is set, an HS256 bearer token signed with the
// same secret is accepted as an equivalent credential.
//
// Rejections say "Unauthorized" and nothing else.
func SharedSecretMiddleware(sharedSecret string, allowJWT bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader(HeaderSecret)
		if subtle.ConstantTimeCompare([]byte(secret), []byte(sharedSecret)) == 1 {
			c.Next()
			return
		}

		if allowJWT && validBearer(c.GetHeader("Authorization"), sharedSecret) {
			c.Next()
			return
		}

		metrics.AdmissionRejections.WithLabelValues("secret").Inc()
		c.String(http.StatusUnauthorized, "Unauthorized")
		c.Abort()
	}
}

func validBearer(authHeader, sharedSecret string) bool {
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(sharedSecret), nil
	})
	return err == nil && token.Valid
}
