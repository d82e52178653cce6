package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/askarbek/maintdesk/internal/http/middleware"
	"github.com/askarbek/maintdesk/internal/model"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, environment string, allowedOrigins []string) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(authMiddleware)

	managers := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	maintainers := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleTechnician)
	admins := middleware.RequireRole(model.RoleAdmin)

	requests := api.Group("/requests")
	{
		requests.POST("", handler.createRequest)
		requests.GET("", handler.listRequests)
		requests.GET("/calendar/view", handler.getCalendar)
		requests.GET("/calendar/export", handler.exportCalendar)
		requests.POST("/import", admins, handler.importRequests)
		requests.GET("/:id", handler.getRequest)
		requests.GET("/:id/workorder", handler.workOrderPDF)
		requests.PUT("/:id", maintainers, handler.updateRequest)
		requests.PATCH("/:id/status", maintainers, handler.updateRequestStatus)
		requests.DELETE("/:id", managers, handler.deleteRequest)
	}

	equipment := api.Group("/equipment")
	{
		equipment.GET("", handler.listEquipment)
		equipment.GET("/:id", handler.getEquipment)
		equipment.GET("/:id/warranty", handler.warrantyStatus)
		equipment.GET("/:id/requests", handler.listEquipmentRequests)
		equipment.POST("", managers, handler.createEquipment)
		equipment.PUT("/:id", managers, handler.updateEquipment)
		equipment.DELETE("/:id", managers, handler.deleteEquipment)
	}

	teams := api.Group("/teams")
	{
		teams.GET("", handler.listTeams)
		teams.GET("/:id", handler.getTeam)
		teams.POST("", managers, handler.createTeam)
		teams.PUT("/:id", managers, handler.renameTeam)
		teams.DELETE("/:id", managers, handler.deleteTeam)
		teams.POST("/:id/technicians", managers, handler.addTechnician)
		teams.DELETE("/:id/technicians/:technicianId", managers, handler.removeTechnician)
	}

	return router
}
