package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/pagination"
	"github.com/golfworks/fittings/internal/service"
)

type SwingHandler struct {
	swings *service.SwingService
	loc    *time.Location
}

func NewSwingHandler(swings *service.SwingService, loc *time.Location) *SwingHandler {
	return &SwingHandler{swings: swings, loc: loc}
}

type swingView struct {
	*model.SwingAnalysis
	User *model.UserSummary `json:"user,omitempty"`
}

func viewSwing(s *model.SwingAnalysis) swingView {
	return swingView{SwingAnalysis: s, User: s.User.Summary()}
}

func viewSwings(items []model.SwingAnalysis) []swingView {
	out := make([]swingView, len(items))
	for i := range items {
		out[i] = viewSwing(&items[i])
	}
	return out
}

func (h *SwingHandler) load(c *gin.Context) (*model.SwingAnalysis, bool) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	s, err := h.swings.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if !principal(c).CanAccess(s.UserID) {
		writeError(c, apperror.Forbidden("Not allowed to access this swing analysis"))
		return nil, false
	}
	return s, true
}

// POST /swing-analysis
func (h *SwingHandler) Create(c *gin.Context) {
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
		writeError(c, apperror.Forbidden("Cannot create a swing analysis for another user"))
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

	s, err := h.swings.Create(c.Request.Context(), userID, date, in.Comments)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewSwing(s))
}

// GET /swing-analysis/:id
func (h *SwingHandler) Get(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewSwing(s))
}

// GET /swing-analysis (admin)
func (h *SwingHandler) List(c *gin.Context) {
	h.list(c, uuid.Nil)
}

// GET /swing-analysis/user/:userId (self or admin)
func (h *SwingHandler) ListByUser(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	if !principal(c).CanAccess(userID) {
		writeError(c, apperror.Forbidden("Not allowed to list another user's swing analyses"))
		return
	}
	h.list(c, userID)
}

func (h *SwingHandler) list(c *gin.Context, userID uuid.UUID) {
	page, err := h.swings.List(c.Request.Context(), userID, c.Query("status"), pageRequest(c, pagination.DefaultLimit))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swingAnalyses": viewSwings(page.Items), "pagination": page.Meta})
}

// PUT /swing-analysis/:id; only admins may change the status here.
func (h *SwingHandler) Update(c *gin.Context) {
	var in struct {
		Date         *string         `json:"date"`
		Status       *string         `json:"status"`
		Comments     *string         `json:"comments"`
		VideoURL     *string         `json:"video_url"`
		AnalysisData json.RawMessage `json:"analysis_data"`
	}
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}

	s, ok := h.load(c)
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
	if string(in.AnalysisData) == "null" {
		in.AnalysisData = nil
	}

	updated, err := h.swings.Update(c.Request.Context(), s.ID, service.SwingPatch{
		Date:         date,
		Status:       in.Status,
		Comments:     in.Comments,
		VideoURL:     in.VideoURL,
		AnalysisData: in.AnalysisData,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewSwing(updated))
}

// PATCH /swing-analysis/:id/:newStatus (admin)
func (h *SwingHandler) SetStatus(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	s, err := h.swings.SetStatus(c.Request.Context(), id, c.Param("newStatus"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewSwing(s))
}

// DELETE /swing-analysis/:id (admin)
func (h *SwingHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.swings.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Swing analysis deleted successfully"})
}
