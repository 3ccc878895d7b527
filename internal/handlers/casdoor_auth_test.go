package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/config"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// roleGateRouter wires a request with the given role already resolved into
// the context, the guard under test, and a terminal handler that records
// whether it was reached.
func roleGateRouter(role models.UserRole, guard gin.HandlerFunc, reached *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/schedules", func(c *gin.Context) {
		if role != "" {
			c.Set("user_role", role)
		}
	}, guard, func(c *gin.Context) {
		*reached = true
		c.Status(http.StatusCreated)
	})
	return router
}

func TestRequireRoleMiddleware(t *testing.T) {
	cam := NewCasdoorAuthMiddleware(config.CasdoorConfig{}, nil)

	tests := []struct {
		name        string
		role        models.UserRole
		guard       gin.HandlerFunc
		wantStatus  int
		wantReached bool
	}{
		{
			name:        "admin passes admin-only gate",
			role:        models.RoleAdmin,
			guard:       cam.RequireRoleMiddleware(models.RoleAdmin),
			wantStatus:  http.StatusCreated,
			wantReached: true,
		},
		{
			name:       "teacher rejected at admin-only gate",
			role:       models.RoleTeacher,
			guard:      cam.RequireRoleMiddleware(models.RoleAdmin),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "student rejected at admin-only gate",
			role:       models.RoleStudent,
			guard:      cam.RequireRoleMiddleware(models.RoleAdmin),
			wantStatus: http.StatusForbidden,
		},
		{
			name:        "teacher passes teacher gate",
			role:        models.RoleTeacher,
			guard:       cam.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin),
			wantStatus:  http.StatusCreated,
			wantReached: true,
		},
		{
			name:        "admin passes every gate",
			role:        models.RoleAdmin,
			guard:       cam.RequireRoleMiddleware(models.RoleTeacher),
			wantStatus:  http.StatusCreated,
			wantReached: true,
		},
		{
			name:       "missing role rejected",
			role:       "",
			guard:      cam.RequireRoleMiddleware(models.RoleAdmin),
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			router := roleGateRouter(tt.role, tt.guard, &reached)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/schedules", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if reached != tt.wantReached {
				t.Errorf("expected handler reached=%v, got %v", tt.wantReached, reached)
			}
		})
	}
}
