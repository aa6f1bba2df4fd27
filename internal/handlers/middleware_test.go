package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"license-investigation/internal/access"
)

func newTestRouter(permission access.Permission) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Identity(), RequirePermission(permission), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": currentUserID(c),
			"role":    string(currentRole(c)),
		})
	})
	return router
}

func doRequest(router *gin.Engine, userID, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if userID != "" {
		req.Header.Set(headerUserID, userID)
	}
	if role != "" {
		req.Header.Set(headerUserRole, role)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdentity(t *testing.T) {
	router := newTestRouter(access.PermViewComplaint)

	t.Run("missing headers rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, "", "").Code)
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, "user-1", "").Code)
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, "", "investigator").Code)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, "user-1", "superuser").Code)
	})

	t.Run("valid identity passes through", func(t *testing.T) {
		w := doRequest(router, "user-1", "investigator")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-1")
		assert.Contains(t, w.Body.String(), "investigator")
	})
}

func TestRequirePermission(t *testing.T) {
	t.Run("role without permission forbidden", func(t *testing.T) {
		router := newTestRouter(access.PermManageUsers)
		assert.Equal(t, http.StatusForbidden, doRequest(router, "user-1", "investigator").Code)
	})

	t.Run("role with permission allowed", func(t *testing.T) {
		router := newTestRouter(access.PermManageUsers)
		assert.Equal(t, http.StatusOK, doRequest(router, "user-1", "admin").Code)
	})

	t.Run("auditor cannot run analysis", func(t *testing.T) {
		router := newTestRouter(access.PermRunAnalysis)
		assert.Equal(t, http.StatusForbidden, doRequest(router, "user-1", "auditor").Code)
	})
}
