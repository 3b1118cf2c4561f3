package sample

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type RouterConfig struct {
	GinMode      string
	StaticPrefix string
	Starter      Starter
}

var registerTagNameOnce sync.Once

// NewRouter builds the sample application:
//
//	GET /                    the starter, as JSON
//	GET /custom-arg          the resolved CustomArgument, as JSON
//	GET <StaticPrefix>/...   embedded static resources
func NewRouter(cfg RouterConfig, logger *zap.Logger) http.Handler {
	// Only set mode from config if we're not in test mode
	if cfg.GinMode != "" && gin.Mode() != gin.TestMode {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.StaticPrefix == "" {
		cfg.StaticPrefix = DefaultStaticPrefix
	}
	if cfg.Starter == (Starter{}) {
		cfg.Starter = DefaultStarter
	}

	registerTagNameOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})
		}
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger))
	r.Use(ErrorHandlerMiddleware(logger))
	r.Use(ServeStatic(cfg.StaticPrefix, StaticFiles()))

	handlers := NewHandlers(logger, cfg.Starter)
	r.GET("/", handlers.Home)
	r.GET("/custom-arg", handlers.CustomArg)
	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(NewErrNotFound(c.Request.URL.Path))
	})
	return r
}
