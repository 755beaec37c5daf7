package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-service/internal/adapter/gin/middleware"
	"account-service/internal/usecase/account"
	apperrors "account-service/pkg/errors"
)

// AccountHandler handles HTTP requests for managing the current user's account.
type AccountHandler struct {
	uc  account.Usecase
	log *zap.Logger
}

// NewAccountHandler creates a new AccountHandler instance
func NewAccountHandler(uc account.Usecase, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		uc:  uc,
		log: log,
	}
}

// RegisterRequest represents the HTTP request body for registering an account
type RegisterRequest struct {
	Login       string `json:"login" binding:"required,min=1,max=50"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	RePassword  string `json:"rePassword" binding:"required"`
	FirstName   string `json:"firstName" binding:"omitempty,max=50"`
	LastName    string `json:"lastName" binding:"omitempty,max=50"`
	LangKey     string `json:"langKey" binding:"omitempty,min=2,max=6"`
	ImageURL    string `json:"imageUrl" binding:"omitempty,max=256"`
	Address     string `json:"address" binding:"omitempty,max=256"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,max=20"`
}

// LoginRequest represents the HTTP request body for credential authentication
type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// TokenResponse carries the issued JWT
type TokenResponse struct {
	IDToken string `json:"id_token"`
}

// AccountResponse represents the HTTP response for the current account
type AccountResponse struct {
	Login              string   `json:"login"`
	FirstName          string   `json:"firstName,omitempty"`
	LastName           string   `json:"lastName,omitempty"`
	Email              string   `json:"email"`
	Activated          bool     `json:"activated"`
	LangKey            string   `json:"langKey,omitempty"`
	ImageURL           string   `json:"imageUrl,omitempty"`
	Address            string   `json:"address,omitempty"`
	PhoneNumber        string   `json:"phoneNumber,omitempty"`
	IdentityCardNumber string   `json:"identityCardNumber,omitempty"`
	Authorities        []string `json:"authorities,omitempty"`
}

// SaveAccountRequest represents the HTTP request body for updating the account
type SaveAccountRequest struct {
	FirstName          string `json:"firstName" binding:"omitempty,max=50"`
	LastName           string `json:"lastName" binding:"omitempty,max=50"`
	Email              string `json:"email" binding:"required,email"`
	LangKey            string `json:"langKey" binding:"omitempty,min=2,max=6"`
	ImageURL           string `json:"imageUrl" binding:"omitempty,max=256"`
	Address            string `json:"address" binding:"omitempty,max=256"`
	PhoneNumber        string `json:"phoneNumber" binding:"omitempty,max=20"`
	IdentityCardNumber string `json:"identityCardNumber" binding:"omitempty,max=20"`
}

// ChangePasswordRequest represents the HTTP request body for changing the password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// KeyAndPasswordRequest represents the HTTP request body for finishing a password reset
type KeyAndPasswordRequest struct {
	Key         string `json:"key" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// checkPasswordLength reports whether a password satisfies the length policy.
func checkPasswordLength(password string) bool {
	return password != "" &&
		len(password) >= account.PasswordMinLength &&
		len(password) <= account.PasswordMaxLength
}

// RegisterAccount handles POST /api/register
func (h *AccountHandler) RegisterAccount(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if !checkPasswordLength(req.Password) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_password",
			Message: "password length must be between 4 and 100 characters",
		})
		return
	}
	if req.Password != req.RePassword {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "password_mismatch",
			Message: "passwords do not match",
		})
		return
	}

	err := h.uc.Register(c.Request.Context(), account.RegisterRequest{
		Login:       req.Login,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		LangKey:     req.LangKey,
		ImageURL:    req.ImageURL,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.log.Error("register failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// ActivateAccount handles GET /api/activate?key=
func (h *AccountHandler) ActivateAccount(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_key",
			Message: "activation key is required",
		})
		return
	}

	if err := h.uc.Activate(c.Request.Context(), key); err != nil {
		h.log.Error("activation failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// Login handles POST /api/authenticate
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.Authenticate(c.Request.Context(), account.LoginRequest{
		Username:   req.Username,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		h.log.Warn("authentication failed", zap.String("username", req.Username), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+resp.IDToken)
	c.JSON(http.StatusOK, TokenResponse{IDToken: resp.IDToken})
}

// IsAuthenticated handles GET /api/authenticate.
// It returns the login of the authenticated user, or an empty body for
// anonymous callers.
func (h *AccountHandler) IsAuthenticated(c *gin.Context) {
	login, _ := middleware.GetCurrentLogin(c)
	c.String(http.StatusOK, login)
}

// GetAccount handles GET /api/account
func (h *AccountHandler) GetAccount(c *gin.Context) {
	login, ok := middleware.GetCurrentLogin(c)
	if !ok {
		// 500 rather than 401: an account route reached without a
		// resolvable principal is a server-side wiring failure here.
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Current user login not found",
		})
		return
	}

	resp, err := h.uc.GetAccount(c.Request.Context(), login)
	if err != nil {
		h.log.Error("get account failed", zap.String("login", login), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, AccountResponse{
		Login:              resp.Login,
		FirstName:          resp.FirstName,
		LastName:           resp.LastName,
		Email:              resp.Email,
		Activated:          resp.Activated,
		LangKey:            resp.LangKey,
		ImageURL:           resp.ImageURL,
		Address:            resp.Address,
		PhoneNumber:        resp.PhoneNumber,
		IdentityCardNumber: resp.IdentityCardNumber,
		Authorities:        resp.Authorities,
	})
}

// SaveAccount handles POST /api/account
func (h *AccountHandler) SaveAccount(c *gin.Context) {
	login, ok := middleware.GetCurrentLogin(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Current user login not found",
		})
		return
	}

	var req SaveAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid save account request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	err := h.uc.UpdateAccount(c.Request.Context(), login, account.UpdateAccountRequest{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		LangKey:            req.LangKey,
		ImageURL:           req.ImageURL,
		Address:            req.Address,
		PhoneNumber:        req.PhoneNumber,
		IdentityCardNumber: req.IdentityCardNumber,
	})
	if err != nil {
		h.log.Error("save account failed", zap.String("login", login), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// ChangePassword handles POST /api/account/change-password
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid change password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if !checkPasswordLength(req.NewPassword) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_password",
			Message: "password length must be between 4 and 100 characters",
		})
		return
	}

	login, ok := middleware.GetCurrentLogin(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Current user login not found",
		})
		return
	}

	err := h.uc.ChangePassword(c.Request.Context(), login, account.ChangePasswordRequest{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.log.Error("change password failed", zap.String("login", login), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// RequestPasswordReset handles POST /api/account/reset-password/init.
// The request body is the raw email address, not a JSON document.
func (h *AccountHandler) RequestPasswordReset(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 512))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: "could not read request body",
		})
		return
	}

	email := strings.TrimSpace(string(body))
	if email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: "email is required",
		})
		return
	}

	if err := h.uc.RequestPasswordReset(c.Request.Context(), email); err != nil {
		h.log.Warn("password reset request failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// FinishPasswordReset handles POST /api/account/reset-password/finish
func (h *AccountHandler) FinishPasswordReset(c *gin.Context) {
	var req KeyAndPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid finish reset request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if !checkPasswordLength(req.NewPassword) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_password",
			Message: "password length must be between 4 and 100 characters",
		})
		return
	}

	err := h.uc.FinishPasswordReset(c.Request.Context(), account.FinishPasswordResetRequest{
		Key:         req.Key,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.log.Error("finish password reset failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// handleError converts usecase errors to appropriate HTTP responses
func (h *AccountHandler) handleError(c *gin.Context, err error) {
	var statuser apperrors.HTTPStatuser
	if errors.As(err, &statuser) {
		status := statuser.HTTPStatus()
		body := ErrorResponse{Message: err.Error()}
		switch status {
		case http.StatusBadRequest:
			body.Error = "bad_request"
		case http.StatusUnauthorized:
			body.Error = "unauthorized"
		default:
			body.Error = "internal_error"
			// Do not leak wrapped internals to clients
			var internal *apperrors.InternalServerError
			if errors.As(err, &internal) {
				body.Message = internal.Message
			}
		}
		c.JSON(status, body)
		return
	}

	// Validation errors from the usecase layer
	if strings.Contains(err.Error(), "validation failed") {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
