package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/pagination"
	"github.com/golfworks/fittings/internal/service"
)

type GettingStartedHandler struct {
	messages *service.GettingStartedService
}

func NewGettingStartedHandler(messages *service.GettingStartedService) *GettingStartedHandler {
	return &GettingStartedHandler{messages: messages}
}

type messageView struct {
	*model.GettingStartedMessage
	User *model.UserSummary `json:"user,omitempty"`
}

func viewMessage(m *model.GettingStartedMessage) messageView {
	return messageView{GettingStartedMessage: m, User: m.User.Summary()}
}

// POST /getting-started (admin)
func (h *GettingStartedHandler) Create(c *gin.Context) {
	var in struct {
		UserID  string `json:"userId"`
		Message string `json:"message"`
	}
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	userID, err := optionalUUID(in.UserID, "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	if userID == uuid.Nil {
		userID = principal(c).UserID
	}

	m, err := h.messages.Create(c.Request.Context(), userID, in.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewMessage(m))
}

// GET /getting-started/:id
func (h *GettingStartedHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	m, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewMessage(m))
}

// GET /getting-started/active
func (h *GettingStartedHandler) Active(c *gin.Context) {
	m, err := h.messages.Active(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewMessage(m))
}

// GET /getting-started
func (h *GettingStartedHandler) List(c *gin.Context) {
	page, err := h.messages.List(c.Request.Context(), pageRequest(c, pagination.DefaultLimit))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]messageView, len(page.Items))
	for i := range page.Items {
		out[i] = viewMessage(&page.Items[i])
	}
	c.JSON(http.StatusOK, gin.H{"gettingStartedMessages": out, "pagination": page.Meta})
}

// PUT /getting-started/:id (admin)
func (h *GettingStartedHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var in struct {
		Message  *string `json:"message"`
		IsActive *bool   `json:"isActive"`
	}
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}

	m, err := h.messages.Update(c.Request.Context(), id, service.MessagePatch{
		Message:  in.Message,
		IsActive: in.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewMessage(m))
}

// DELETE /getting-started/:id (admin); the active message cannot be deleted.
func (h *GettingStartedHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.messages.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Getting started message deleted successfully"})
}
