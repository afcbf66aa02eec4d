package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"adframes/internal/domain"
	"adframes/internal/handler"
	"adframes/internal/ingest/mapping"
	"adframes/internal/router"
	"adframes/internal/service"
	"adframes/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(auth *mocks.MockAuthService, uploads *mocks.MockUploadService) *gin.Engine {
	return router.Setup(
		auth,
		handler.NewUploadHandler(uploads),
		handler.NewSchemaHandler(mapping.CanonicalFields()),
		handler.NewHealthHandler(nil),
		router.Options{AllowedOrigins: []string{"https://app.example.com"}, MaxBodyBytes: 1 << 20},
	)
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := setup(new(mocks.MockAuthService), new(mocks.MockUploadService))

	for _, path := range []string{"/healthz", "/api/v1/schema", "/api/v1/templates/inventory"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_UploadsRequireToken(t *testing.T) {
	r := setup(new(mocks.MockAuthService), new(mocks.MockUploadService))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/uploads/"+uuid.NewString(), http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_UploadStatusWithToken(t *testing.T) {
	auth := new(mocks.MockAuthService)
	uploads := new(mocks.MockUploadService)
	ownerID, id := uuid.New(), uuid.New()
	auth.On("ValidateToken", "tok").Return(&service.Claims{OwnerID: ownerID}, nil)
	uploads.On("Get", mock.Anything, ownerID, id).Return(&domain.UploadSession{
		ID:       id,
		State:    domain.SessionCommitting,
		Progress: domain.CommitProgress{Total: 10, Succeeded: 4},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/uploads/"+id.String(), http.NoBody)
	req.Header.Set("Authorization", "Bearer tok")
	r := setup(auth, uploads)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"succeeded":4`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
