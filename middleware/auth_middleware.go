package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/parkspace/apperror"
	config "github.com/anjiri1684/parkspace/configs"
	"github.com/anjiri1684/parkspace/database"
	"github.com/anjiri1684/parkspace/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is the caller identity carried by a verified token.
type Session struct {
	UserID uuid.UUID
	Role   string
}

// Protected verifies the bearer token and then that its account is still
// active, so disabling a user revokes tokens already issued.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(config.App.JWTSecret),
		ErrorHandler:   jwtError,
		SuccessHandler: activeSession,
	})
}

func activeSession(c *fiber.Ctx) error {
	session, err := CurrentUser(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	if err := EnsureActive(session.UserID); err != nil {
		return apperror.Respond(c, err)
	}
	return c.Next()
}

// EnsureActive fails with ACCOUNT_DISABLED for disabled accounts and
// UNAUTHORIZED for accounts that no longer exist.
func EnsureActive(userID uuid.UUID) error {
	var user models.User
	err := database.DB.Select("id", "is_active").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Unauthorized("account no longer exists")
	}
	if err != nil {
		return apperror.Internal(fmt.Errorf("load session user: %w", err))
	}
	if !user.IsActive {
		return apperror.New(fiber.StatusForbidden, apperror.CodeAccountDisabled, "this account has been disabled")
	}
	return nil
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return apperror.Respond(c, apperror.Unauthorized("missing or malformed token"))
	}
	return apperror.Respond(c, apperror.Unauthorized("invalid or expired token"))
}

// CurrentUser reads the session placed in Locals by Protected.
func CurrentUser(c *fiber.Ctx) (Session, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Session{}, apperror.Unauthorized("authentication required")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, apperror.Unauthorized("invalid token claims")
	}
	return sessionFromClaims(claims)
}

func sessionFromClaims(claims jwt.MapClaims) (Session, error) {
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return Session{}, apperror.Unauthorized("invalid user in token")
	}
	role, _ := claims["role"].(string)
	return Session{UserID: userID, Role: role}, nil
}

// GenerateToken issues a signed session token with user_id, role and exp claims.
func GenerateToken(userID uuid.UUID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(config.App.JWTTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.App.JWTSecret))
}

// ParseToken verifies a raw token outside the HTTP middleware chain.
func ParseToken(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.App.JWTSecret), nil
	})
	if err != nil {
		return Session{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Session{}, errors.New("invalid token")
	}
	return sessionFromClaims(claims)
}
