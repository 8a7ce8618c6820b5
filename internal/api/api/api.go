package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"eventdesk/cmd/middleware"
	"eventdesk/internal/auth"
	"eventdesk/internal/service"
)

type Routers struct {
	Service service.Service
	Tokens  *auth.Manager
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())

	v1 := app.Group("/v1")

	v1.POST("/register", r.Service.Register)
	v1.POST("/login", r.Service.Login)

	// Event browsing is public; an optional token widens visibility to drafts.
	browse := v1.Group("")
	browse.Use(middleware.MaybeAuthenticate(r.Tokens))
	browse.GET("/events", r.Service.ListEvents)
	browse.GET("/events/:id", r.Service.GetEvent)

	authed := v1.Group("")
	authed.Use(middleware.Authenticate(r.Tokens))
	authed.GET("/user", r.Service.CurrentUser)
	authed.POST("/registrations", r.Service.CreateRegistration)
	authed.GET("/registrations", r.Service.ListMyRegistrations)
	authed.GET("/registrations/:id", r.Service.GetRegistration)
	authed.POST("/registrations/:id/cancel", r.Service.CancelRegistration)

	admin := v1.Group("")
	admin.Use(middleware.Authenticate(r.Tokens), middleware.RequireAdmin())
	admin.POST("/events", r.Service.CreateEvent)
	admin.PUT("/events/:id", r.Service.UpdateEvent)
	admin.DELETE("/events/:id", r.Service.DeleteEvent)
	admin.GET("/events/:id/participants", r.Service.ListParticipants)
	admin.PATCH("/registrations/:id/status", r.Service.UpdateRegistrationStatus)
	admin.POST("/check-ins", r.Service.CreateCheckIn)
	admin.POST("/check-ins/by-code", r.Service.CheckInByCode)
	admin.GET("/events/:id/check-ins", r.Service.ListCheckIns)
	admin.DELETE("/check-ins/:id", r.Service.DeleteCheckIn)
	admin.GET("/events/:id/check-in-statistics", r.Service.GetCheckInStatistics)

	return app
}
