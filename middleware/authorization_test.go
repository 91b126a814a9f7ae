package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	config "github.com/anjiri1684/parkspace/configs"
	"github.com/anjiri1684/parkspace/database/dbtest"
	"github.com/anjiri1684/parkspace/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCapabilityTable(t *testing.T) {
	assert.True(t, Can(models.RoleCustomer, CapBookingsCreate))
	assert.False(t, Can(models.RoleCustomer, CapPaymentsReviewOwn))
	assert.True(t, Can(models.RoleOwner, CapPaymentsReviewOwn))
	assert.False(t, Can(models.RoleOwner, CapPaymentsReviewAny))
	assert.False(t, Can(models.RoleOwner, CapStatsAdmin))
	assert.True(t, Can(models.RoleAdmin, CapPaymentsReviewAny))
	assert.True(t, Can(models.RoleAdmin, CapGamificationManage))
	assert.False(t, Can("stranger", CapBookingsCreate))
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	previous := config.App
	config.App = config.Defaults()
	config.App.JWTSecret = "test-secret"
	t.Cleanup(func() { config.App = previous })
	db := dbtest.Open(t)

	app := fiber.New()
	app.Get("/admin", Protected(), Require(CapStatsAdmin), func(c *fiber.Ctx) error {
		s, err := CurrentUser(c)
		if err != nil {
			return err
		}
		return c.SendString(s.UserID.String())
	})
	return app, db
}

func createUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	u := models.User{FullName: role, Email: uuid.NewString() + "@example.com", Password: "x", Role: role, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func getAdmin(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, body io.Reader) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestRequireRejectsMissingSession(t *testing.T) {
	app, _ := newTestApp(t)

	resp := getAdmin(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp.Body)["code"])
}

func TestRequireRejectsWrongRole(t *testing.T) {
	app, db := newTestApp(t)
	customer := createUser(t, db, models.RoleCustomer)
	token, err := GenerateToken(customer.ID, customer.Role)
	require.NoError(t, err)

	resp := getAdmin(t, app, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp.Body)["code"])
}

func TestRequireAllowsAdmin(t *testing.T) {
	app, db := newTestApp(t)
	admin := createUser(t, db, models.RoleAdmin)
	token, err := GenerateToken(admin.ID, admin.Role)
	require.NoError(t, err)

	resp := getAdmin(t, app, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedRevokesDisabledAccount(t *testing.T) {
	app, db := newTestApp(t)
	admin := createUser(t, db, models.RoleAdmin)
	token, err := GenerateToken(admin.ID, admin.Role)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, getAdmin(t, app, token).StatusCode)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).Update("is_active", false).Error)

	resp := getAdmin(t, app, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ACCOUNT_DISABLED", decodeError(t, resp.Body)["code"])
}

func TestProtectedRejectsDeletedAccount(t *testing.T) {
	app, _ := newTestApp(t)
	token, err := GenerateToken(uuid.New(), models.RoleAdmin)
	require.NoError(t, err)

	resp := getAdmin(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp.Body)["code"])
}

func TestParseTokenRoundTrip(t *testing.T) {
	newTestApp(t)
	id := uuid.New()
	token, err := GenerateToken(id, models.RoleOwner)
	require.NoError(t, err)

	session, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, session.UserID)
	assert.Equal(t, models.RoleOwner, session.Role)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}
