package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudocs-api/internal/middleware"
	"github.com/noah-isme/edudocs-api/internal/models"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

var (
	studentClaims = &models.JWTClaims{UserID: "s1", Role: models.RoleStudent, FullName: "Sara Student", Email: "sara@school.test", AdmissionNo: "A123"}
	staffClaims   = &models.JWTClaims{UserID: "t1", Role: models.RoleStaff, FullName: "Tom Teacher"}
	superClaims   = &models.JWTClaims{UserID: "sa-1", Role: models.RoleSuperAdmin, FullName: "Sam Super"}
)

// newTestRouter mounts a single route behind a middleware that injects claims.
func newTestRouter(claims *models.JWTClaims, method, path string, h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ContextUserKey, claims)
		}
		c.Next()
	}, h)
	return router
}

func serve(router *gin.Engine, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) responseEnvelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, out))
	return env
}

func TestMissingClaimsIsUnauthorized(t *testing.T) {
	router := newTestRouter(nil, http.MethodGet, "/dashboard", NewDashboardHandler(&dashboardServiceStub{}).Get)
	rec := serve(router, http.MethodGet, "/dashboard", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "UNAUTHORIZED", decodeEnvelope(t, rec).Error.Code)
}
