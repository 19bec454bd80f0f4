package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/pagination"
	"github.com/golfworks/fittings/internal/service"
)

type AuthHandler struct {
	identity *service.IdentityService
}

func NewAuthHandler(identity *service.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

type userBody struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	GolfClubSize *string `json:"golf_club_size"`
	Role         *string `json:"role"`
}

func (b userBody) patch() service.UserPatch {
	return service.UserPatch{
		Name:         b.Name,
		Email:        b.Email,
		Password:     b.Password,
		Phone:        b.Phone,
		Address:      b.Address,
		GolfClubSize: b.GolfClubSize,
		Role:         b.Role,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		Phone        string `json:"phone"`
		Address      string `json:"address"`
		GolfClubSize string `json:"golf_club_size"`
	}
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}

	u, err := h.identity.Register(c.Request.Context(), service.RegisterInput{
		Name:         in.Name,
		Email:        in.Email,
		Password:     in.Password,
		Phone:        in.Phone,
		Address:      in.Address,
		GolfClubSize: in.GolfClubSize,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "userId": u.ID})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}

	res, err := h.identity.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "User successfully logged in",
		"token":    res.Token,
		"role":     res.Role,
		"userId":   res.UserID,
		"email":    res.Email,
		"username": res.Username,
	})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.identity.GetUser(c.Request.Context(), principal(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// PUT /auth/users/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var in userBody
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	u, err := h.identity.UpdateMe(c.Request.Context(), principal(c).UserID, in.patch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// GET /auth/users (admin)
func (h *AuthHandler) ListUsers(c *gin.Context) {
	page, err := h.identity.ListUsers(c.Request.Context(), pageRequest(c, pagination.DefaultLimit))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": page.Items, "pagination": page.Meta})
}

// GET /auth/users/:id (self or admin)
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if !principal(c).CanAccess(id) {
		writeError(c, apperror.Forbidden("Not allowed to view this user"))
		return
	}
	u, err := h.identity.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// PUT /auth/users/:id (admin)
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var in userBody
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	u, err := h.identity.UpdateUser(c.Request.Context(), id, in.patch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
