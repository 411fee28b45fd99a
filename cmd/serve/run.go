// Package serve runs the editing server: one editor per opened page, driven
// by a JSON API.
package serve

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bgraf/baukasten/catalog"
	"github.com/bgraf/baukasten/config"
	"github.com/bgraf/baukasten/document"
	"github.com/bgraf/baukasten/editor"
	"github.com/bgraf/baukasten/extension"
	"github.com/bgraf/baukasten/images"
	"github.com/bgraf/baukasten/logging"
)

const mediaPrefix = "/media/"

func RunServeCmd(cmd *cobra.Command, args []string) error {
	if !config.HasPagesDirectory() {
		return fmt.Errorf("no pages directory configured")
	}

	logger := logging.FromContext(cmd.Context())

	store, err := document.NewStore(config.PagesDirectory(), logger)
	if err != nil {
		return err
	}

	blocks, err := catalog.Default()
	if err != nil {
		return err
	}

	loader := images.NewLoader(config.VerifyTimeout())
	loader.MediaDir = config.MediaDirectory()
	loader.MediaPrefix = mediaPrefix

	api := newServeAPI(store, blocks, sessionOptions{
		Editor: editor.Options{
			ReadyTimeout: config.ReadyTimeout(),
		},
		Extension: extension.Options{
			Verifier:      loader,
			MaxAttempts:   config.MaxAttempts(),
			VerifyTimeout: config.VerifyTimeout(),
			ToolbarMargin: config.ToolbarMargin(),
		},
	}, logger)

	gin.SetMode(gin.ReleaseMode)
	r := newRouter(api)
	r.Static(mediaPrefix, config.MediaDirectory())

	address := config.ServeAddress()
	logger.Info("serving", zap.String("address", address))

	return r.Run(address)
}

func newRouter(api *serveAPI) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/pages", api.ServePages)
	r.POST("/api/pages", api.CreatePage)
	r.GET("/api/pages/:GUID", api.ServePage)
	r.POST("/api/pages/:GUID/traits", api.SetTrait)
	r.POST("/api/pages/:GUID/select", api.Select)
	r.POST("/api/pages/:GUID/blocks", api.AddBlock)
	r.POST("/api/pages/:GUID/device", api.SetDevice)
	r.POST("/api/pages/:GUID/save", api.Save)
	r.GET("/api/pages/:GUID/live", api.ServeLive)
	r.GET("/api/catalog", api.ServeCatalog)
	r.GET("/canvas/:GUID", api.ServeCanvas)

	return r
}

type serveAPI struct {
	// mu guards the store.
	mu       sync.Mutex
	store    *document.Store
	catalog  *catalog.Catalog
	sessions *sessions
	logger   *zap.Logger
}

func newServeAPI(store *document.Store, blocks *catalog.Catalog, opts sessionOptions, logger *zap.Logger) *serveAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("serve")

	store.OrderPagesByUpdated()
	store.OrderTags()

	return &serveAPI{
		store:    store,
		catalog:  blocks,
		sessions: newSessions(opts, logger),
		logger:   logger,
	}
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (api *serveAPI) ServeCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": api.catalog.Categories(),
		"blocks":     api.catalog.Blocks(),
	})
}
