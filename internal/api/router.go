package api

import (
	"ripweb/internal/api/controllers"
	"ripweb/internal/app"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

func RegisterRoutes(e *echo.Echo, app *app.Context) {

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			app.Logger.Info("%s %s | %d | %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	dlCtrl := &controllers.DownloadsController{App: app}
	evCtrl := &controllers.EventsController{App: app}
	cfgCtrl := &controllers.ConfigController{App: app}
	brCtrl := &controllers.BrowseController{App: app}

	// Submission + status
	e.POST("/api/download", dlCtrl.HandleSubmit)
	e.POST("/api/download-from-url", dlCtrl.HandleSubmitWithMetadata)
	e.GET("/api/status", dlCtrl.HandleStatus)

	// Live event stream (SSE)
	e.GET("/api/events", evCtrl.Handle)

	// Streamrip config editor
	e.GET("/api/config", cfgCtrl.HandleGet)
	e.POST("/api/config", cfgCtrl.HandleSave)

	// Completed downloads browser
	e.GET("/api/browse", brCtrl.Handle)
}
