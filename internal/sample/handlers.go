package sample

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type Handlers struct {
	logger  *zap.Logger
	starter Starter
}

func NewHandlers(logger *zap.Logger, starter Starter) *Handlers {
	return &Handlers{
		logger:  logger,
		starter: starter,
	}
}

// Home renders the starter as JSON. Requests that don't accept JSON get 406.
func (h *Handlers) Home(c *gin.Context) {
	if c.NegotiateFormat(binding.MIMEJSON) == "" {
		_ = c.Error(NewErrNotAcceptable(c.GetHeader("Accept")))
		return
	}
	c.JSON(http.StatusOK, h.starter)
}

// CustomArg echoes the resolved CustomArgument. PureJSON keeps the content
// verbatim instead of escaping HTML characters.
func (h *Handlers) CustomArg(c *gin.Context) {
	arg, err := BindCustomArgument(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.logger.Debug("resolved custom argument", zap.String("content", arg.Content))
	c.PureJSON(http.StatusOK, arg)
}
