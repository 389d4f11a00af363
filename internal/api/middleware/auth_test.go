package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lmis-mock-server/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type staticResolver map[string]auth.Identity

func (r staticResolver) Resolve(token string) (auth.Identity, error) {
	if id, ok := r[token]; ok {
		return id, nil
	}
	return auth.Identity{}, errors.New("unknown token")
}

func testRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	resolver := staticResolver{
		"admin-token": {UserID: "user-001", Username: "administrator", Role: "ADMIN"},
		"chw-token":   {UserID: "user-003", Username: "chw", Role: "HEALTH_WORKER"},
	}
	chain := append([]gin.HandlerFunc{Identify(resolver)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": id.Username, "identified": ok})
	})
	r.GET("/probe", chain...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentifyIsOptional(t *testing.T) {
	r := testRouter()

	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"","identified":false}`, w.Body.String())

	w = do(r, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"","identified":false}`, w.Body.String())

	w = do(r, "bearer admin-token")
	assert.JSONEq(t, `{"user":"administrator","identified":true}`, w.Body.String())
}

func TestRequireIdentity(t *testing.T) {
	r := testRouter(RequireIdentity())

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Basic YWRtaW46cGFzcw==").Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer chw-token").Code)
}

func TestAuthorize(t *testing.T) {
	r := testRouter(Authorize("ADMIN"))

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer chw-token").Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer admin-token").Code)
}
