package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "centsimple/internal/errors"
	"centsimple/internal/models"
	"centsimple/internal/uuid"
)

// verificationTokenTTL is how long an email verification link stays valid.
const verificationTokenTTL = 24 * time.Hour

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// Register creates a new unverified user and returns the verification token
// to be delivered by email.
func (s *userService) Register(email, password, firstName, lastName string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, "", apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	token := uuid.New()
	expires := time.Now().Add(verificationTokenTTL)

	user := &models.User{
		Email:                    strings.ToLower(email),
		Password:                 string(hashedPassword),
		FirstName:                firstName,
		LastName:                 lastName,
		IsVerified:               false,
		VerificationToken:        &token,
		VerificationTokenExpires: &expires,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, token, nil
}

// VerifyEmail marks the user holding the token as verified and clears the
// token. Unknown and expired tokens are indistinguishable to the caller.
func (s *userService) VerifyEmail(token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidVerifyToken
	}

	var user models.User
	if err := s.db.Where("verification_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidVerifyToken
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if user.VerificationTokenExpires == nil || time.Now().After(*user.VerificationTokenExpires) {
		return nil, apperrors.ErrInvalidVerifyToken
	}

	updates := map[string]interface{}{
		"is_verified":                true,
		"verification_token":         nil,
		"verification_token_expires": nil,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user.IsVerified = true
	user.VerificationToken = nil
	user.VerificationTokenExpires = nil
	return &user, nil
}

// RegenerateVerification issues a fresh verification token for an unverified
// user, invalidating any previous one.
func (s *userService) RegenerateVerification(email string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrUserNotFound
		}
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if user.IsVerified {
		return nil, "", apperrors.ErrAlreadyVerified
	}

	token := uuid.New()
	expires := time.Now().Add(verificationTokenTTL)
	updates := map[string]interface{}{
		"verification_token":         token,
		"verification_token_expires": expires,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user.VerificationToken = &token
	user.VerificationTokenExpires = &expires
	return &user, token, nil
}

// AttemptLogin checks the credentials and verification state. Unknown
// emails and wrong passwords produce the same error.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}
