package notification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	notificationService "github.com/upkeephq/upkeep-api/internal/service/notification"
	"github.com/upkeephq/upkeep-api/internal/service/scheduler"
)

type Handler struct {
	service *notificationService.Service
	sched   *scheduler.Scheduler
}

func NewHandler(service *notificationService.Service, sched *scheduler.Scheduler) *Handler {
	return &Handler{service: service, sched: sched}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.POST("/check", h.RunCheck)
		notifications.POST("/test", h.SendTest)
		notifications.GET("/scheduler", h.SchedulerStatus)
	}
}

// RunCheck triggers one full pipeline pass, sharing the run exclusion with
// the cron trigger.
func (h *Handler) RunCheck(c *gin.Context) {
	result, err := h.sched.RunNow(c.Request.Context())
	if err != nil {
		if errors.Is(err, scheduler.ErrCheckInFlight) {
			c.JSON(http.StatusConflict, gin.H{"status": "error", "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": result})
}

func (h *Handler) SendTest(c *gin.Context) {
	sent, err := h.service.SendTestBroadcast(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"delivered": sent}})
}

func (h *Handler) SchedulerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": h.sched.Status()})
}
