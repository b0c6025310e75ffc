package router

import (
	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/interfaces/http/handler"
)

// Handlers groups every handler the API serves.
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Lead        *handler.LeadHandler
	Transaction *handler.TransactionHandler
	Canned      *handler.MessageHandler
	Template    *handler.MessageHandler
	Upload      *handler.UploadHandler
	System      *handler.SystemHandler
}

// Mount registers /health on the engine and the domain groups under /api/v1.
// authLimit guards the /auth group; it may be nil.
func Mount(engine *gin.Engine, h Handlers, authLimit gin.HandlerFunc, opts ...RouterOption) *Router {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, opts...)
	r.Register(
		authRoutes(h.Auth, authLimit),
		userRoutes(h.User),
		teamRoutes(h.User),
		leadRoutes(h.Lead),
		transactionRoutes(h.Transaction),
		messageRoutes("canned-messages", h.Canned),
		messageRoutes("template-messages", h.Template),
		uploadRoutes(h.Upload),
		NewDomainGroup("system", "/system").GET("/info", h.System.GetSystemInfo),
	)
	r.Setup()
	return r
}

func authRoutes(h *handler.AuthHandler, limit gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	if limit != nil {
		g.Use(limit)
	}
	return g.
		POST("/login", h.Login).
		POST("/refresh", h.RefreshToken).
		POST("/logout", h.Logout).
		GET("/me", h.GetCurrentUser)
}

func userRoutes(h *handler.UserHandler) *DomainGroup {
	return NewDomainGroup("users", "/users").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		POST("/:id/activate", h.Activate).
		POST("/:id/deactivate", h.Deactivate)
}

func teamRoutes(h *handler.UserHandler) *DomainGroup {
	return NewDomainGroup("teams", "/teams").
		POST("", h.CreateTeam).
		GET("", h.ListTeams)
}

func leadRoutes(h *handler.LeadHandler) *DomainGroup {
	g := NewDomainGroup("leads", "/leads").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		PATCH("/:id/stage", h.ChangeStage).
		PATCH("/:id/assignee", h.Assign).
		POST("/:id/activate", h.Activate).
		POST("/:id/deactivate", h.Deactivate)
	g.Group("notes", "/:id/notes").
		GET("", h.ListNotes).
		POST("", h.AddNote)
	return g
}

// /new is static so gin prefers it over /:id.
func transactionRoutes(h *handler.TransactionHandler) *DomainGroup {
	return NewDomainGroup("transactions", "/transactions").
		GET("/new", h.NewForm).
		POST("/prepare", h.Prepare).
		POST("", h.Submit).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

func messageRoutes(name string, h *handler.MessageHandler) *DomainGroup {
	return NewDomainGroup(name, "/"+name).
		GET("", h.List).
		POST("", h.Create).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

func uploadRoutes(h *handler.UploadHandler) *DomainGroup {
	return NewDomainGroup("uploads", "/uploads").
		POST("/logo", h.RequestLogoUpload).
		GET("/logo", h.LogoDownloadURL)
}
