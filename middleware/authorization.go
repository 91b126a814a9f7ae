package middleware

import (
	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/models"
	"github.com/gofiber/fiber/v2"
)

type Capability string

const (
	CapBookingsCreate     Capability = "bookings:create"
	CapPaymentsReviewAny  Capability = "payments:review:any"
	CapPaymentsReviewOwn  Capability = "payments:review:own"
	CapBookingsDelete     Capability = "bookings:delete"
	CapSpacesManageOwn    Capability = "spaces:manage:own"
	CapSpacesManageAny    Capability = "spaces:manage:any"
	CapStatsAdmin         Capability = "stats:admin"
	CapStatsOwner         Capability = "stats:owner"
	CapGamificationManage Capability = "gamification:manage"
	CapUsersManage        Capability = "users:manage"
)

var roleCapabilities = map[string][]Capability{
	models.RoleCustomer: {CapBookingsCreate},
	models.RoleOwner: {
		CapBookingsCreate,
		CapPaymentsReviewOwn,
		CapSpacesManageOwn,
		CapStatsOwner,
	},
	models.RoleAdmin: {
		CapBookingsCreate,
		CapPaymentsReviewAny,
		CapBookingsDelete,
		CapSpacesManageAny,
		CapStatsAdmin,
		CapGamificationManage,
		CapUsersManage,
	},
}

// Can reports whether role grants capability.
func Can(role string, capability Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// Require must run after Protected. Any one of caps is sufficient.
func Require(caps ...Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := CurrentUser(c)
		if err != nil {
			return apperror.Respond(c, err)
		}
		for _, capability := range caps {
			if Can(session.Role, capability) {
				return c.Next()
			}
		}
		return apperror.Respond(c, apperror.Forbidden("you do not have permission to perform this action"))
	}
}
