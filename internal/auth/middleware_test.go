package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithAuth(header string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	return c
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc123", BearerToken(requestWithAuth("Bearer abc123")))
	assert.Equal(t, "abc123", BearerToken(requestWithAuth("bearer abc123")))
	assert.Equal(t, "", BearerToken(requestWithAuth("")))
	assert.Equal(t, "", BearerToken(requestWithAuth("Basic abc123")))
	assert.Equal(t, "", BearerToken(requestWithAuth("Bearer")))
}

func TestRequireAuth_ValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	registered, token, err := service.Register(registerInput())
	require.NoError(t, err)

	var seenID uint
	router := gin.New()
	router.Use(NewMiddleware(service).RequireAuth())
	router.GET("/protected", func(c *gin.Context) {
		user := CurrentUser(c)
		require.NotNil(t, user)
		seenID = user.ID
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, registered.ID, seenID)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	router := gin.New()
	router.Use(NewMiddleware(service).RequireAuth())
	router.GET("/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthenticated.")
}

func TestCurrentUser_OutsideMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, CurrentUser(c))
}
