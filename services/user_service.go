package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/database"
	"github.com/anjiri1684/parkspace/logger"
	"github.com/anjiri1684/parkspace/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    *string
	Role     string
}

type ProfileInput struct {
	FullName          *string
	Phone             *string
	ProfilePictureURL *string
}

var errAccountDisabled = apperror.New(http.StatusForbidden, CodeAccountDisabled, "this account has been disabled")

var errInvalidCredentials = apperror.New(http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser creates a customer or owner account with its zero points
// balance. Admin accounts are only created by the seeder.
func RegisterUser(in RegisterInput) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleOwner {
		return nil, apperror.BadRequest(apperror.CodeValidation, "role must be customer or owner")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		FullName: strings.TrimSpace(in.FullName),
		Email:    normalizeEmail(in.Email),
		Password: string(hashedPassword),
		Phone:    trimmedOrNil(in.Phone),
		Role:     role,
		IsActive: true,
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return apperror.Conflict(CodeEmailExists, "email already exists")
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflict(CodeEmailExists, "email already exists")
			}
			return fmt.Errorf("create user: %w", err)
		}
		return ensureUserPoints(tx, user.ID)
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("user registered")
	return &user, nil
}

// Authenticate checks credentials and returns the active account.
func Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, errAccountDisabled
	}
	return &user, nil
}

func GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(CodeUserNotFound, "user not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

func UpdateProfile(id uuid.UUID, in ProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.FullName != nil && strings.TrimSpace(*in.FullName) != "" {
		updates["full_name"] = strings.TrimSpace(*in.FullName)
	}
	if in.Phone != nil {
		updates["phone"] = trimmedOrNil(in.Phone)
	}
	if in.ProfilePictureURL != nil {
		updates["profile_picture_url"] = trimmedOrNil(in.ProfilePictureURL)
	}
	if len(updates) > 0 {
		result := database.DB.Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("update profile: %w", result.Error)
		}
	}
	return GetUser(id)
}

// ListUsers is the admin directory, optionally filtered by role.
func ListUsers(role string, page Page) (PageResult[models.User], error) {
	if role != "" && !models.IsValidRole(role) {
		return PageResult[models.User]{}, apperror.BadRequest(apperror.CodeValidation, fmt.Sprintf("invalid role %q", role))
	}
	scope := func(q *gorm.DB) *gorm.DB {
		if role != "" {
			q = q.Where("role = ?", role)
		}
		return q
	}
	var total int64
	if err := scope(database.DB.Model(&models.User{})).Count(&total).Error; err != nil {
		return PageResult[models.User]{}, fmt.Errorf("count users: %w", err)
	}
	var users []models.User
	err := scope(database.DB.Model(&models.User{})).
		Order("created_at desc").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&users).Error
	if err != nil {
		return PageResult[models.User]{}, fmt.Errorf("list users: %w", err)
	}
	return NewPageResult(users, total, page), nil
}

// SetUserActive enables or disables an account. Admins cannot disable
// themselves.
func SetUserActive(actor Actor, id uuid.UUID, active bool) (*models.User, error) {
	if actor.UserID == id && !active {
		return nil, apperror.Conflict(apperror.CodeValidation, "you cannot disable your own account")
	}
	result := database.DB.Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return nil, fmt.Errorf("update user status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperror.NotFound(CodeUserNotFound, "user not found")
	}
	logger.Log.Info().
		Str("user_id", id.String()).
		Bool("active", active).
		Str("actor_id", actor.UserID.String()).
		Msg("user status changed")
	return GetUser(id)
}
