package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/golfworks/fittings/internal/service"
)

type AdminTaskHandler struct {
	tasks *service.AdminTaskService
}

func NewAdminTaskHandler(tasks *service.AdminTaskService) *AdminTaskHandler {
	return &AdminTaskHandler{tasks: tasks}
}

// GET /task-types
func (h *AdminTaskHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, h.tasks.TaskTypes())
}

// GET /task-type/:type
func (h *AdminTaskHandler) Type(c *gin.Context) {
	t, err := h.tasks.TaskType(c.Param("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": t})
}

// POST /task
func (h *AdminTaskHandler) Create(c *gin.Context) {
	var in struct {
		FittingRequestID string `json:"fittingRequestId"`
		Task             string `json:"task"`
	}
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	fittingID, err := optionalUUID(in.FittingRequestID, "fittingRequestId")
	if err != nil {
		writeError(c, err)
		return
	}

	t, err := h.tasks.CreateTask(c.Request.Context(), fittingID, in.Task)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// GET /fitting-request/:id/tasks
func (h *AdminTaskHandler) ListForFitting(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	tasks, err := h.tasks.ListTasks(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}
