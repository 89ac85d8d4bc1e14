package prometheus

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the default prometheus registry, where pkg/metrics
// registers everything via promauto.
type Handler struct{}

func New() *Handler {
	return &Handler{}
}

func (h *Handler) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
