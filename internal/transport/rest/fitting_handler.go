package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/pagination"
	"github.com/golfworks/fittings/internal/service"
)

type FittingHandler struct {
	fittings *service.FittingService
	loc      *time.Location
}

func NewFittingHandler(fittings *service.FittingService, loc *time.Location) *FittingHandler {
	return &FittingHandler{fittings: fittings, loc: loc}
}

type fittingView struct {
	*model.FittingRequest
	User *model.UserSummary `json:"user,omitempty"`
}

func viewFitting(f *model.FittingRequest) fittingView {
	return fittingView{FittingRequest: f, User: f.User.Summary()}
}

func viewFittings(items []model.FittingRequest) []fittingView {
	out := make([]fittingView, len(items))
	for i := range items {
		out[i] = viewFitting(&items[i])
	}
	return out
}

// load fetches the fitting and checks the caller may act on it.
func (h *FittingHandler) load(c *gin.Context) (*model.FittingRequest, bool) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	f, err := h.fittings.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if !principal(c).CanAccess(f.UserID) {
		writeError(c, apperror.Forbidden("Not allowed to access this fitting request"))
		return nil, false
	}
	return f, true
}

// POST /fitting-request
func (h *FittingHandler) Create(c *gin.Context) {
	var in struct {
		UserID   string `json:"userId"`
		Date     string `json:"date"`
		Comments string `json:"comments"`
	}
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}

	p := principal(c)
	userID, err := optionalUUID(in.UserID, "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	if userID == uuid.Nil {
		userID = p.UserID
	}
	if !p.CanAccess(userID) {
		writeError(c, apperror.Forbidden("Cannot create a fitting request for another user"))
		return
	}
	if in.Date == "" {
		writeError(c, apperror.InvalidInput("User ID and date are required"))
		return
	}
	date, err := parseTime(in.Date, h.loc)
	if err != nil {
		writeError(c, err)
		return
	}

	f, err := h.fittings.Create(c.Request.Context(), userID, date, in.Comments)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewFitting(f))
}

// GET /fitting-request/:id
func (h *FittingHandler) Get(c *gin.Context) {
	f, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewFitting(f))
}

// GET /fitting-requests (admin)
func (h *FittingHandler) List(c *gin.Context) {
	h.list(c, uuid.Nil)
}

// GET /fitting-requests/:userId (self or admin)
func (h *FittingHandler) ListByUser(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	if !principal(c).CanAccess(userID) {
		writeError(c, apperror.Forbidden("Not allowed to list another user's fitting requests"))
		return
	}
	h.list(c, userID)
}

func (h *FittingHandler) list(c *gin.Context, userID uuid.UUID) {
	page, err := h.fittings.List(c.Request.Context(), userID, c.Query("status"), pageRequest(c, pagination.DefaultLimit))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fittingRequests": viewFittings(page.Items), "pagination": page.Meta})
}

// PUT /fitting-request/:id; only admins may change the status here.
func (h *FittingHandler) Update(c *gin.Context) {
	var in struct {
		Date     *string `json:"date"`
		Status   *string `json:"status"`
		Comments *string `json:"comments"`
	}
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}

	f, ok := h.load(c)
	if !ok {
		return
	}
	if in.Status != nil && !principal(c).Role.IsAdmin() {
		writeError(c, apperror.Forbidden("Only admins can change the status"))
		return
	}
	date, err := parseOptionalTime(in.Date, h.loc)
	if err != nil {
		writeError(c, err)
		return
	}

	updated, err := h.fittings.Update(c.Request.Context(), f.ID, service.FittingPatch{
		Date:     date,
		Status:   in.Status,
		Comments: in.Comments,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewFitting(updated))
}

// PATCH /fitting-request/:id/:newStatus (admin)
func (h *FittingHandler) SetStatus(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	f, err := h.fittings.SetStatus(c.Request.Context(), id, c.Param("newStatus"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewFitting(f))
}

// PATCH /fitting-request/:id/reschedule
func (h *FittingHandler) Reschedule(c *gin.Context) {
	var in struct {
		AppointmentTime string `json:"appointmentTime"`
	}
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	if in.AppointmentTime == "" {
		writeError(c, apperror.InvalidInput("Appointment time is required"))
		return
	}

	f, ok := h.load(c)
	if !ok {
		return
	}
	at, err := parseTime(in.AppointmentTime, h.loc)
	if err != nil {
		writeError(c, err)
		return
	}

	updated, err := h.fittings.Reschedule(c.Request.Context(), f.ID, at)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewFitting(updated))
}

// DELETE /fitting-request/:id (admin)
func (h *FittingHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.fittings.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fitting request deleted successfully"})
}
