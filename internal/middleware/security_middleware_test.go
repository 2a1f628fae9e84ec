package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"salepoint/internal/auth"

	"github.com/gin-gonic/gin"
)

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	group := r.Group("/api")
	group.Use(AuthMiddleware())
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		userID, _ := c.Get("userID")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	return r
}

func request(t *testing.T, r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func bearerFor(t *testing.T, userID uint, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return "Bearer " + token
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec := request(t, protectedRouter(), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_NotBearer(t *testing.T) {
	rec := request(t, protectedRouter(), "Basic abc123")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-bearer header, got %d", rec.Code)
	}
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	rec := request(t, protectedRouter(), "Bearer not-a-real-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ValidTokenSetsContext(t *testing.T) {
	rec := request(t, protectedRouter(), bearerFor(t, 9, "cashier"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestRequireRole_BlocksWrongRole(t *testing.T) {
	rec := request(t, protectedRouter("admin"), bearerFor(t, 9, "cashier"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_AllowsListedRole(t *testing.T) {
	rec := request(t, protectedRouter("admin", "inventory"), bearerFor(t, 9, "inventory"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_SuperAdminAlwaysPasses(t *testing.T) {
	rec := request(t, protectedRouter("admin"), bearerFor(t, 1, "super admin"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected super admin to pass, got %d", rec.Code)
	}
}
