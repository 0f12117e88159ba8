package controllers

import (
	"log/slog"
	"net/http"

	"slotbooking/internal/delivery/http/helpers"
	"slotbooking/internal/domain"
)

// LoginRequest is the request body for POST /admin/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginSuccessResponse is the response envelope for POST /admin/login. Bad credentials still answer 200 with success=false.
type LoginSuccessResponse struct {
	Data  *domain.LoginResult `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type AdminController struct {
	Logger  *slog.Logger
	Service domain.AdminService
}

func NewAdminController(logger *slog.Logger, svc domain.AdminService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// Login godoc
// @Summary Admin login
// @Description Checks the admin credentials. On success the result carries the admin and, when configured, a bearer token.
// @Tags admin
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Email and password"
// @Success 200 {object} controllers.LoginSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/login [post]
func (c *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "admin not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
