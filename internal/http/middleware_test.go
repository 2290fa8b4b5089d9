package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secretRouter(allowJWT bool) *gin.Engine {
	router := gin.New()
	router.POST("/", SharedSecretMiddleware(testSecret, allowJWT), func(c *gin.Context) {
		c.String(http.StatusOK, "admitted")
	})
	return router
}

func hit(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSharedSecretAdmits(t *testing.T) {
	w := hit(secretRouter(false), map[string]string{HeaderSecret: testSecret})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSharedSecretRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"missing header": {},
		"wrong secret":   {HeaderSecret: "nope"},
		"prefix only":    {HeaderSecret: testSecret[:len(testSecret)-1]},
	}
	for name, headers := range cases {
		t.Run(name, func(t *testing.T) {
			w := hit(secretRouter(false), headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Unauthorized", w.Body.String())
		})
	}
}

func signToken(t *testing.T, key string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "order-pipeline",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestBearerTokenAdmitsWhenEnabled(t *testing.T) {
	w := hit(secretRouter(true), map[string]string{
		"Authorization": "Bearer " + signToken(t, testSecret),
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerTokenRejectedWhenDisabled(t *testing.T) {
	w := hit(secretRouter(false), map[string]string{
		"Authorization": "Bearer " + signToken(t, testSecret),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerTokenWrongKeyRejected(t *testing.T) {
	w := hit(secretRouter(true), map[string]string{
		"Authorization": "Bearer " + signToken(t, "some-other-key"),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
