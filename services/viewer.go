package services

import (
	"ff-portal/models"

	"github.com/gofiber/fiber/v2"
)

// Viewer is the authenticated caller as established by the session
// middleware.
type Viewer struct {
	UserID string
	Roles  []string
	Token  string
}

func (v Viewer) IsAdmin() bool {
	for _, r := range v.Roles {
		if r == string(models.RoleAdmin) {
			return true
		}
	}
	return false
}

// ViewerFrom reads the identity the session middleware attached to c.
func ViewerFrom(c *fiber.Ctx) Viewer {
	v := Viewer{}
	if id, ok := c.Locals("user_id").(string); ok {
		v.UserID = id
	}
	if roles, ok := c.Locals("user_roles").([]string); ok {
		v.Roles = roles
	}
	if tok, ok := c.Locals("session_token").(string); ok {
		v.Token = tok
	}
	return v
}
