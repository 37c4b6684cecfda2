package api

import "community_server/server/community/domain"

// Allow-lists per route group. Roles are never compared by rank.
var (
	adminOnly = []domain.Role{domain.RoleAdmin}
	staff     = []domain.Role{domain.RoleAdmin, domain.RoleMod}
)
