package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crm/backend/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func testHandlers() Handlers {
	return Handlers{
		Auth:        handler.NewAuthHandler(nil),
		User:        handler.NewUserHandler(nil),
		Lead:        handler.NewLeadHandler(nil),
		Transaction: handler.NewTransactionHandler(nil, handler.DefaultIdempotencyHeader),
		Canned:      handler.NewMessageHandler(nil),
		Template:    handler.NewMessageHandler(nil),
		Upload:      handler.NewUploadHandler(nil),
		System:      handler.NewSystemHandler(okPinger{}, "test"),
	}
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	w := serve(engine, "GET", "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup_SubgroupsAndMiddleware(t *testing.T) {
	engine := gin.New()
	var hits []string

	group := NewDomainGroup("parent", "/parent").Use(func(c *gin.Context) {
		hits = append(hits, c.FullPath())
		c.Next()
	})
	group.Group("child", "/child").PATCH("/item", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	NewRouter(engine).Register(group).Setup()

	w := serve(engine, "PATCH", "/api/v1/parent/child/item")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"/api/v1/parent/child/item"}, hits)
	assert.Equal(t, "parent", group.Name())
	assert.Equal(t, "/parent", group.Prefix())
}

func TestMount_Routes(t *testing.T) {
	engine := gin.New()
	Mount(engine, testHandlers(), nil)

	registered := map[string]bool{}
	for _, ri := range engine.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"POST /api/v1/users",
		"GET /api/v1/users/:id",
		"POST /api/v1/users/:id/deactivate",
		"GET /api/v1/teams",
		"POST /api/v1/leads",
		"PATCH /api/v1/leads/:id/stage",
		"PATCH /api/v1/leads/:id/assignee",
		"GET /api/v1/leads/:id/notes",
		"POST /api/v1/leads/:id/notes",
		"GET /api/v1/transactions/new",
		"POST /api/v1/transactions/prepare",
		"POST /api/v1/transactions",
		"DELETE /api/v1/transactions/:id",
		"GET /api/v1/canned-messages",
		"DELETE /api/v1/canned-messages/:id",
		"PUT /api/v1/template-messages/:id",
		"POST /api/v1/uploads/logo",
		"GET /api/v1/uploads/logo",
		"GET /api/v1/system/info",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestMount_APIMiddlewareSkipsHealth(t *testing.T) {
	engine := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	Mount(engine, testHandlers(), nil, WithMiddleware(deny))

	assert.Equal(t, http.StatusOK, serve(engine, "GET", "/health").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, "GET", "/api/v1/system/info").Code)
}

func TestMount_AuthLimitOnlyOnAuthGroup(t *testing.T) {
	engine := gin.New()
	var limited []string
	limit := func(c *gin.Context) {
		limited = append(limited, c.FullPath())
		c.AbortWithStatus(http.StatusTooManyRequests)
	}
	Mount(engine, testHandlers(), limit)

	assert.Equal(t, http.StatusTooManyRequests, serve(engine, "POST", "/api/v1/auth/login").Code)
	require.Equal(t, http.StatusOK, serve(engine, "GET", "/api/v1/system/info").Code)
	assert.Equal(t, []string{"/api/v1/auth/login"}, limited)
}
