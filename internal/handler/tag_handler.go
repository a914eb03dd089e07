package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/logger"
)

type TagService interface {
	ListTags(ctx context.Context) ([]string, error)
}

type TagHandler struct {
	tags TagService
	log  *logger.Logger
}

func NewTagHandler(tags TagService, log *logger.Logger) *TagHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &TagHandler{tags: tags, log: log.WithComponent("tag_handler")}
}

func (h *TagHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/tags/", h.List)
}

// List godoc
// @Summary  List remembered tag names
// @Tags     tags
// @Produce  json
// @Success  200  {array}  string
// @Router   /tags/ [get]
func (h *TagHandler) List(c *gin.Context) {
	names, err := h.tags.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, names)
}
