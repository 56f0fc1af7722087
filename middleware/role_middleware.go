package middleware

import (
	"github.com/gofiber/fiber/v2"
	authutils "teamtrack-backend/lib/utils/auth-utils"
	"teamtrack-backend/models"
	apimodels "teamtrack-backend/models/api"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if id, ok := sub.(string); ok {
			return id
		}
	}
	return ""
}

func GetUserName(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if name, exist := claims["name"]; exist {
		if strName, ok := name.(string); ok {
			return strName
		}
	}
	return ""
}

func GetGlobalRole(ctx *fiber.Ctx) models.GlobalRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.GlobalRole(stringRole)
		}
	}
	return ""
}

func SuperAdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if GetGlobalRole(ctx) != models.RoleSuperAdmin {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation not permitted"))
		}
		return ctx.Next()
	}
}

// AdminRoleRequired permits superadmins and team leads (report surfaces).
func AdminRoleRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		role := GetGlobalRole(ctx)
		if role != models.RoleSuperAdmin && role != models.RoleTeamLead {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation not permitted"))
		}
		return ctx.Next()
	}
}
