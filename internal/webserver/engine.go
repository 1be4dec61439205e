package webserver

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Lucid-Synth/fileflow/internal/database"
	"github.com/Lucid-Synth/fileflow/internal/storage"
	"github.com/Lucid-Synth/fileflow/internal/validator"
	middlewarepkg "github.com/Lucid-Synth/fileflow/internal/webserver/middleware"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/logger"
)

// A Controller is an Inversion Of Control pattern used to init the server package.
type Controller struct {
	Version  string
	Logger   logger.Logger
	Database database.Client
	Storage  storage.Backend
	//
	Validator validator.Validator
	// PublicURL is the base URL the share links are built on.
	PublicURL string
	// CORSOrigins restricts the cross-origin callers. Empty allows none.
	CORSOrigins []string
}

// EchoEngine instantiates the web server.
func EchoEngine(ctrl Controller) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Gzip())
	engine.Use(middlewarepkg.Logger(ctrl.Logger))
	if len(ctrl.CORSOrigins) > 0 {
		engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     ctrl.CORSOrigins,
			AllowCredentials: true,
		}))
	}

	engine.HTTPErrorHandler = middlewarepkg.NewHTTPErrorHandler(ctrl.Logger)

	//
	//
	//

	router := engine.Group("")

	// Generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	// Share lifecycle
	//
	share := share{
		logger:    ctrl.Logger,
		db:        ctrl.Database,
		storage:   ctrl.Storage,
		validator: ctrl.Validator,
		publicurl: strings.TrimRight(ctrl.PublicURL, "/"),
	}
	router.GET("/health", share.Health)

	router.POST("/upload", share.Upload)
	router.POST("/upload-multiple", share.UploadBatch)

	router.GET("/share/:share_id", share.Show)
	router.GET("/s/:share_id", share.Redirect)
	router.GET("/files/uploads/:object", share.Download)
	router.DELETE("/delete/:share_id", share.Delete)

	return engine
}

// PrintRoutes prints the Echo engine exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}
