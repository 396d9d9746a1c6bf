package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"canteen/internal/config"
	"canteen/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// =====================
// レスポンス確認用（any禁止）
// =====================

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// =====================
// helper
// =====================

func mustMakeJWT(t *testing.T, secret string, sub int64, role string, signingMethod jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  1,
		"exp":  9999999999,
	}

	token := jwt.NewWithClaims(signingMethod, claims)

	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func newTestEcho(cfg config.Config, guards ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()

	g := e.Group("/protected")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(guards...)

	g.GET("", func(c echo.Context) error {
		userID, _ := c.Get(middleware.CtxUserIDKey).(int64)
		role, _ := c.Get(middleware.CtxUserRoleKey).(string)
		return c.JSON(http.StatusOK, mwOKResponse{UserID: userID, Role: role})
	})

	return e
}

func runRequest(t *testing.T, e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMWError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var r mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r
}

// Test: 正しいトークンでcontextにuser_idとroleが入る
func TestAuthJWT_ValidToken(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newTestEcho(cfg)

	token := mustMakeJWT(t, "test-secret", 7, "CUSTOMER", jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)

	var ok mwOKResponse
	_ = json.NewDecoder(rec.Body).Decode(&ok)
	assert.Equal(t, int64(7), ok.UserID)
	assert.Equal(t, "CUSTOMER", ok.Role)
}

// Test: Authorizationヘッダ無しは401
func TestAuthJWT_MissingHeader(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newTestEcho(cfg)

	rec := runRequest(t, e, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
}

// Test: 署名が違うトークンは401
func TestAuthJWT_WrongSecret(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newTestEcho(cfg)

	token := mustMakeJWT(t, "other-secret", 7, "CUSTOMER", jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Test: Bearer形式でないヘッダは401
func TestAuthJWT_NotBearer(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newTestEcho(cfg)

	token := mustMakeJWT(t, "test-secret", 7, "CUSTOMER", jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Basic "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Test: AdminRoleGuardはADMIN以外を403で止める
func TestAdminRoleGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newTestEcho(cfg, middleware.AdminRoleGuard())

	adminToken := mustMakeJWT(t, "test-secret", 3, "ADMIN", jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	customerToken := mustMakeJWT(t, "test-secret", 7, "CUSTOMER", jwt.SigningMethodHS256)
	rec = runRequest(t, e, "Bearer "+customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// Test: StaffRoleGuardはADMINとFOODCOURTを通す
func TestStaffRoleGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newTestEcho(cfg, middleware.StaffRoleGuard())

	for _, role := range []string{"ADMIN", "FOODCOURT"} {
		token := mustMakeJWT(t, "test-secret", 3, role, jwt.SigningMethodHS256)
		rec := runRequest(t, e, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code, "role=%s", role)
	}

	customerToken := mustMakeJWT(t, "test-secret", 7, "CUSTOMER", jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
