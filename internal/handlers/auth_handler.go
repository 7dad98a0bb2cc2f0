package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "centsimple/internal/errors"
	"centsimple/internal/logger"
	"centsimple/internal/mail"
	"centsimple/internal/middleware"
	"centsimple/internal/models"
	"centsimple/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService services.UserServicer
	mailer      mail.Mailer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, mailer mail.Mailer) *AuthHandler {
	return &AuthHandler{userService: userService, mailer: mailer}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest represents the email verification payload
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ResendVerificationRequest represents the resend-verification payload
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsVerified bool   `json:"is_verified"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func userResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		IsVerified: user.IsVerified,
	}
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user and send a verification email
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} MessageResponse "User registered, verification email sent"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, token, err := h.userService.Register(req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// The account exists either way; a failed send is recoverable through
	// the resend endpoint.
	if err := h.mailer.SendVerificationEmail(user.Email, token); err != nil {
		logger.Get().Errorw("failed to send verification email",
			"email", user.Email,
			"error", err.Error(),
		)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Please check your email to verify your account.",
		"user":    userResponse(user),
	})
}

// VerifyEmail handles email verification
// @Summary     Verify email address
// @Description Confirm a user's email address with the token from the verification link
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body VerifyEmailRequest true "Verification token"
// @Success     200 {object} MessageResponse "Email verified"
// @Failure     400 {object} ErrorResponse "Invalid or expired token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.VerifyEmail(req.Token)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully. You can now log in.",
		"user":    userResponse(user),
	})
}

// ResendVerification handles resending the verification email
// @Summary     Resend verification email
// @Description Issue a fresh verification token and email it to an unverified user
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ResendVerificationRequest true "Account email"
// @Success     200 {object} MessageResponse "Verification email sent if an unverified account exists"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// The response must not reveal whether an account exists or is already
	// verified, so every outcome past binding gets the same body.
	user, token, err := h.userService.RegenerateVerification(req.Email)
	switch {
	case err == nil:
		if err := h.mailer.SendVerificationEmail(user.Email, token); err != nil {
			logger.Get().Errorw("failed to send verification email",
				"email", user.Email,
				"error", err.Error(),
			)
		}
	case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrAlreadyVerified):
		logger.Get().Debugw("verification resend skipped", "reason", err.Error())
	default:
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent."})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a verified user and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     403 {object} ErrorResponse "Email not verified"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

// Logout handles user logout
// @Summary     Logout user
// @Description End the current session; the client discards its token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Logged out"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Stateless JWTs: nothing to revoke server-side.
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}
