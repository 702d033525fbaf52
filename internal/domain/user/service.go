// internal/domain/user/service.go
package user

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when a user id or email does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on failed logins without leaking
	// which part was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrEmailTaken is returned when registering or updating to an email
	// already in use by another account.
	ErrEmailTaken = errors.New("email already in use")

	// ErrUsernameTaken is returned when registering a duplicate username.
	ErrUsernameTaken = errors.New("username already in use")
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents profile update data. Username never
// changes.
type UpdateProfileRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new customer account
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	var existing User
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	}
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	if err := s.passwordManager.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     RoleCustomer,
	}
	if err := s.db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.buildAuthResponse(&u)
}

// Login authenticates a user by username
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var u User
	if err := s.db.Where("username = ?", req.Username).First(&u).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.buildAuthResponse(&u)
}

// RefreshToken generates new tokens using a refresh token
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	u, err := s.GetProfile(claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.buildAuthResponse(u)
}

// GetProfile retrieves a user by id
func (s *Service) GetProfile(userID uint) (*User, error) {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

// UpdateProfile updates name, email, phone and address. The email must
// not belong to another account.
func (s *Service) UpdateProfile(userID uint, req *UpdateProfileRequest) (*User, error) {
	u, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	var other User
	if err := s.db.Where("email = ? AND id != ?", req.Email, userID).First(&other).Error; err == nil {
		return nil, ErrEmailTaken
	}

	u.Name = req.Name
	u.Email = req.Email
	u.Phone = req.Phone
	u.Address = req.Address

	if err := s.db.Save(u).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// ChangePassword verifies the old password and sets a new one
func (s *Service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	u, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := s.passwordManager.VerifyPassword(oldPassword, u.Password); err != nil {
		return ErrInvalidCredentials
	}

	if err := s.passwordManager.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(u).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// ResetPassword generates a temporary password for the account behind
// the email and returns it so the caller can surface it once.
func (s *Service) ResetPassword(email string) (string, error) {
	var u User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}

	temp, err := generateTemporaryPassword(12)
	if err != nil {
		return "", fmt.Errorf("failed to generate temporary password: %w", err)
	}

	hashed, err := s.passwordManager.HashPassword(temp)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(&u).Update("password", hashed).Error; err != nil {
		return "", fmt.Errorf("failed to reset password: %w", err)
	}
	return temp, nil
}

// DeliveryAddressFor resolves the delivery address for a user, falling
// back to the sentinel when nothing is on file or the user is unknown.
func (s *Service) DeliveryAddressFor(userID uint) string {
	u, err := s.GetProfile(userID)
	if err != nil {
		return AddressNotOnFile
	}
	return u.DeliveryAddress()
}

func (s *Service) buildAuthResponse(u *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	sanitized := *u
	sanitized.Password = ""

	return &AuthResponse{
		User:         &sanitized,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

const tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789!@#$%&*"

func generateTemporaryPassword(length int) (string, error) {
	password := make([]byte, length)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		password[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(password), nil
}
