package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brieflyai/backend/pkg/errors"
	"github.com/brieflyai/backend/pkg/models"
)

// handleHealth handles the liveness probe
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": s.cfg.App.Title,
		"version": s.cfg.App.Version,
	})
}

// handleRegister handles user registration
// @Summary Create a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.MessageResponse
// @Failure 409 {object} errors.Error "Email already registered"
// @Failure 422 {object} errors.Error "Validation error"
// @Failure 503 {object} errors.Error "Database unavailable"
// @Router /api/auth/register [post]
func (s *Server) handleRegister(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindingError(err))
		return
	}

	if err := s.identitiesSvc.Register(c.Request.Context(), &req); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.MessageResponse{Message: "Account created successfully"})
}

// handleLogin handles user authentication
// @Summary Authenticate and receive a JWT access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} errors.Error "Invalid credentials"
// @Failure 403 {object} errors.Error "Account disabled"
// @Failure 503 {object} errors.Error "Database unavailable"
// @Router /api/auth/login [post]
func (s *Server) handleLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindingError(err))
		return
	}

	resp, err := s.identitiesSvc.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleGetMe returns the authenticated account's public profile
// @Summary Get the current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AccountResponse
// @Failure 401 {object} errors.Error "Missing or invalid token"
// @Router /api/auth/me [get]
func (s *Server) handleGetMe(c *gin.Context) {
	subject := c.GetString("subject")

	account, err := s.identitiesSvc.GetAccount(c.Request.Context(), subject)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewAccountResponse(account))
}

// handleSummarize handles text summarization
// @Summary Summarize a piece of text
// @Tags summarize
// @Accept json
// @Produce json
// @Param request body models.SummarizeRequest true "Summarization request"
// @Success 200 {object} models.SummarizeResponse
// @Failure 422 {object} errors.Error "Validation error"
// @Failure 502 {object} errors.Error "Summarization pipeline failed"
// @Router /api/summarize [post]
func (s *Server) handleSummarize(c *gin.Context) {
	var req models.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindingError(err))
		return
	}

	resp, err := s.summarizeSvc.Summarize(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// writeError maps a flow error onto its HTTP status and response body.
// Internal faults are logged with their cause but surfaced without it.
func (s *Server) writeError(c *gin.Context, err error) {
	var appErr *errors.Error
	if !errors.As(err, &appErr) {
		s.logger.Error("Unhandled error", zap.Error(err),
			zap.String("request_id", c.GetString("request_id")))
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    errors.KindInternal,
			"message": "Internal server error",
		})
		return
	}

	status := errors.Status(appErr.Kind)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(appErr),
			zap.String("request_id", c.GetString("request_id")))
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}

	body := gin.H{"code": appErr.Kind, "message": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(status, body)
}

// bindingError converts gin binding failures into the validation error
// shape, with per-field detail when the validator produced any.
func bindingError(err error) *errors.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Validation("Malformed request body.")
	}

	fields := make([]errors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, errors.NewFieldError(fe.Field(), validationMessage(fe)))
	}
	return errors.Validation("Request validation failed.", fields...)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must have length or count of at least " + fe.Param()
	case "max":
		return "must have length or count of at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
