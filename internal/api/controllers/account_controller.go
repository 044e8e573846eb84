package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carelink/internal/models/request_models"
	"carelink/internal/models/response_models"
	"carelink/internal/services"
	"carelink/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a new account with an optional role-specific profile
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /auth/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := a.accountService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
		Role:      string(account.Role),
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
	}, "Account created successfully")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate and return a bearer token
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, token, "Login successful")
}

// GetMe godoc
// @Summary Get the authenticated account
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /users/me [get]
func (a *AccountController) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	account, err := a.accountService.GetAccount(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
		Role:      string(account.Role),
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
	}, "Account fetched successfully")
}

// UpdateMe godoc
// @Summary Update the authenticated account
// @Description Patch profile fields; role changes are restricted by current role
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.UpdateAccountRequest true "Account patch payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /users/me [put]
func (a *AccountController) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := a.accountService.UpdateAccount(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
		Role:      string(account.Role),
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
	}, "Account updated successfully")
}

// GetRole godoc
// @Summary Get the authenticated account's role
// @Tags Roles
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /roles/me [get]
func (a *AccountController) GetRole(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	account, err := a.accountService.GetAccount(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.RoleResponse{
		UserID: account.ID,
		Role:   string(account.Role),
	}, "Role fetched successfully")
}

// UpdateRole godoc
// @Summary Update another account's role
// @Description Only primary account holders may reassign roles
// @Tags Roles
// @Accept json
// @Produce json
// @Param request body request_models.RoleUpdateRequest true "Role update payload"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /roles/update [post]
func (a *AccountController) UpdateRole(c *gin.Context) {
	var req request_models.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	account, err := a.accountService.UpdateRole(c.Request.Context(), currentRole(c), targetID, req.NewRole)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.RoleResponse{
		UserID: account.ID,
		Role:   string(account.Role),
	}, "Role updated successfully")
}

// GetAllAccounts godoc
// @Summary List active accounts
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /users/all [get]
func (a *AccountController) GetAllAccounts(c *gin.Context) {
	accounts, err := a.accountService.ListActiveAccounts(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, accounts, "Accounts fetched successfully")
}
