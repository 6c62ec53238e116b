package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/notifbox/notifbox/internal/api/handlers/trigger"
)

func New(handler *trigger.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	api := e.Group("/api")

	api.POST("/events/trigger", handler.Trigger)
	api.POST("/events/trigger/bulk", handler.TriggerBulk)
	api.GET("/messages/:id", handler.GetMessageStatus)

	return e
}
