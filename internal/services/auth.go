package services

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/apperrors"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/models"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/types"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/utils"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/pkg/logger"
	"gorm.io/gorm"
)

type AuthService struct {
	db           *gorm.DB
	jwtSecret    string
	emailService *EmailService
	s3Service    *S3Service
	baseURL      string
}

func NewAuthService(db *gorm.DB, jwtSecret string, emailService *EmailService, s3Service *S3Service, baseURL string) *AuthService {
	return &AuthService{
		db:           db,
		jwtSecret:    jwtSecret,
		emailService: emailService,
		s3Service:    s3Service,
		baseURL:      baseURL,
	}
}

type SignupRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Nickname    string `json:"nickname"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Nickname    string `json:"nickname"`
	Bio         string `json:"bio"`
}

var (
	errInvalidCredentials = apperrors.New(apperrors.CodeUnauthorized, "invalid credentials", http.StatusUnauthorized)
	errEmailTaken         = apperrors.New(apperrors.CodeConflict, "a user with this email already exists", http.StatusConflict)
	errInvalidEmail       = apperrors.New(apperrors.CodeInvalidArgument, "invalid email format", http.StatusBadRequest)
	errWeakPassword       = apperrors.New(apperrors.CodeInvalidArgument, "password must be at least 8 characters", http.StatusBadRequest)
	errInvalidResetToken  = apperrors.New(apperrors.CodeUnauthorized, "invalid or expired reset token", http.StatusUnauthorized)
)

// Signup registers a user together with an empty profile record. Owner
// privileges are never granted here; an admin assigns venues separately.
func (s *AuthService) Signup(req SignupRequest) (*types.AuthResponse, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, errInvalidEmail
	}
	if !utils.IsValidPassword(req.Password) {
		return nil, errWeakPassword
	}

	var existingUser models.User
	if err := s.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return nil, errEmailTaken
	}

	user := models.User{
		Email:       utils.SanitizeString(req.Email),
		Password:    req.Password, // Hashed in BeforeCreate hook
		FirstName:   utils.SanitizeString(req.FirstName),
		LastName:    utils.SanitizeString(req.LastName),
		PhoneNumber: utils.SanitizeString(req.PhoneNumber),
		Role:        "customer",
		IsActive:    true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errEmailTaken
			}
			return apperrors.Internal(err)
		}

		profile := models.Profile{
			UserID:   user.ID,
			Nickname: utils.SanitizeString(req.Nickname),
			IsActive: true,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return apperrors.Internal(err)
		}
		user.Profile = &profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	tokenPair, err := s.issueTokens(&user)
	if err != nil {
		return nil, err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.FirstName); err != nil {
			logger.Warn("failed to send welcome email: ", err)
		}
	}

	return &types.AuthResponse{Token: *tokenPair, User: user}, nil
}

func (s *AuthService) Login(req LoginRequest) (*types.AuthResponse, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, errInvalidCredentials
	}

	var user models.User
	if err := s.db.Preload("Profile").Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error; err != nil {
		return nil, errInvalidCredentials
	}

	if !user.CheckPassword(req.Password) {
		return nil, errInvalidCredentials
	}

	// Revoke existing refresh tokens before issuing a new pair
	s.db.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Update("is_revoked", true)

	tokenPair, err := s.issueTokens(&user)
	if err != nil {
		return nil, err
	}

	return &types.AuthResponse{Token: *tokenPair, User: user}, nil
}

func (s *AuthService) issueTokens(user *models.User) (*types.TokenPair, error) {
	tokenPair, err := utils.GenerateTokenPair(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     tokenPair.RefreshToken,
		ExpiresAt: time.Unix(tokenPair.RefreshTokenExpiresAt, 0),
		IsRevoked: false,
	}

	if err := s.db.Create(&refreshToken).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &types.TokenPair{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
	}, nil
}

func (s *AuthService) RefreshToken(req RefreshRequest) (*types.AuthResponse, error) {
	claims, err := utils.ValidateToken(req.RefreshToken, s.jwtSecret)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid refresh token", http.StatusUnauthorized)
	}

	if claims.Type != string(utils.RefreshToken) {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid token type", http.StatusUnauthorized)
	}

	var refreshToken models.RefreshToken
	if err := s.db.Where("token = ? AND is_revoked = ? AND expires_at > ?", req.RefreshToken, false, time.Now()).
		First(&refreshToken).Error; err != nil {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "refresh token not found or expired", http.StatusUnauthorized)
	}

	var user models.User
	if err := s.db.Preload("Profile").Where("id = ? AND is_active = ?", refreshToken.UserID, true).
		First(&user).Error; err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	var pair *types.TokenPair
	err = s.db.Transaction(func(tx *gorm.DB) error {
		refreshToken.IsRevoked = true
		if err := tx.Save(&refreshToken).Error; err != nil {
			return apperrors.Internal(err)
		}

		tokenPair, err := utils.GenerateTokenPair(user.ID, user.Email, user.Role, s.jwtSecret)
		if err != nil {
			return apperrors.Internal(err)
		}

		newRefresh := models.RefreshToken{
			UserID:    user.ID,
			Token:     tokenPair.RefreshToken,
			ExpiresAt: time.Unix(tokenPair.RefreshTokenExpiresAt, 0),
			IsRevoked: false,
		}
		if err := tx.Create(&newRefresh).Error; err != nil {
			return apperrors.Internal(err)
		}

		pair = &types.TokenPair{
			AccessToken:           tokenPair.AccessToken,
			RefreshToken:          tokenPair.RefreshToken,
			AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &types.AuthResponse{Token: *pair, User: user}, nil
}

func (s *AuthService) Logout(refreshToken string) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("token = ?", refreshToken).
		Update("is_revoked", true).Error
}

func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Profile").Preload("Profile.OwnedVenue").
		Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(userID uint, req UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Profile").Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	user.FirstName = utils.SanitizeString(req.FirstName)
	user.LastName = utils.SanitizeString(req.LastName)
	user.PhoneNumber = utils.SanitizeString(req.PhoneNumber)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return apperrors.Internal(err)
		}

		if user.Profile != nil {
			user.Profile.Nickname = utils.SanitizeString(req.Nickname)
			user.Profile.Bio = utils.SanitizeString(req.Bio)
			user.Profile.PhoneNumber = utils.SanitizeString(req.PhoneNumber)
			if err := tx.Save(user.Profile).Error; err != nil {
				return apperrors.Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UploadAvatar stores the user's avatar in S3 and saves the URL on the
// profile.
func (s *AuthService) UploadAvatar(userID uint, file multipart.File, header *multipart.FileHeader) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	result, err := s.s3Service.UploadImage(file, header, "avatars")
	if err != nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, err.Error(), http.StatusBadRequest)
	}

	profile.AvatarURL = result.URL
	if err := s.db.Save(&profile).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &profile, nil
}

func (s *AuthService) ForgotPassword(req ForgotPasswordRequest) error {
	if !utils.IsValidEmail(req.Email) {
		return errInvalidEmail
	}

	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error; err != nil {
		return nil // Don't reveal if email exists
	}

	resetToken, err := utils.GenerateRandomString(32)
	if err != nil {
		return apperrors.Internal(err)
	}

	s.db.Model(&models.PasswordResetToken{}).
		Where("user_id = ? AND is_used = ?", user.ID, false).
		Update("is_used", true)

	passwordResetToken := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(1 * time.Hour),
		IsUsed:    false,
	}

	if err := s.db.Create(&passwordResetToken).Error; err != nil {
		return apperrors.Internal(err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendPasswordResetEmail(user.Email, resetToken, s.baseURL); err != nil {
			logger.Warn("failed to send password reset email: ", err)
		}
	}

	return nil
}

func (s *AuthService) ResetPassword(req ResetPasswordRequest) error {
	if !utils.IsValidPassword(req.NewPassword) {
		return errWeakPassword
	}

	var resetToken models.PasswordResetToken
	if err := s.db.Where("token = ? AND is_used = ? AND expires_at > ?",
		req.Token, false, time.Now()).First(&resetToken).Error; err != nil {
		return errInvalidResetToken
	}

	var user models.User
	if err := s.db.Where("id = ? AND is_active = ?", resetToken.UserID, true).First(&user).Error; err != nil {
		return apperrors.ErrUserNotFound
	}

	if err := user.UpdatePassword(req.NewPassword); err != nil {
		return apperrors.Internal(err)
	}

	if err := s.db.Save(&user).Error; err != nil {
		return apperrors.Internal(err)
	}

	resetToken.IsUsed = true
	s.db.Save(&resetToken)

	s.db.Model(&models.RefreshToken{}).
		Where("user_id = ?", user.ID).
		Update("is_revoked", true)

	return nil
}

func (s *AuthService) ChangePassword(userID uint, req ChangePasswordRequest) error {
	if !utils.IsValidPassword(req.NewPassword) {
		return errWeakPassword
	}

	var user models.User
	if err := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return apperrors.ErrUserNotFound
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return errInvalidCredentials
	}

	if err := user.UpdatePassword(req.NewPassword); err != nil {
		return apperrors.Internal(err)
	}

	if err := s.db.Save(&user).Error; err != nil {
		return apperrors.Internal(err)
	}

	return nil
}

func (s *AuthService) ValidateResetToken(token string) (*models.User, error) {
	var resetToken models.PasswordResetToken
	if err := s.db.Where("token = ? AND is_used = ? AND expires_at > ?",
		token, false, time.Now()).First(&resetToken).Error; err != nil {
		return nil, errInvalidResetToken
	}

	var user models.User
	if err := s.db.Where("id = ? AND is_active = ?", resetToken.UserID, true).First(&user).Error; err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	return &user, nil
}
