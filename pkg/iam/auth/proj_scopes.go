package auth

import (
	"slices"

	"github.com/youssef9656/server/pkg/iam/user"
)

const (
	ScopeAll = "*"

	ScopeCandidaciesRead   = "candidacies:read"
	ScopeCandidaciesWrite  = "candidacies:write"  // status changes
	ScopeCandidaciesDelete = "candidacies:delete" // removes record and résumé
	ScopeCandidaciesExport = "candidacies:export"

	ScopeResumesRead = "resumes:read"

	ScopeNotificationsSend = "notifications:send"

	ScopeContactsRead  = "contacts:read"
	ScopeContactsWrite = "contacts:write"
	ScopeContactsReply = "contacts:reply"

	ScopeUsersWrite = "users:write"
)

var roleScopes = map[string][]string{
	user.RoleAdmin: {ScopeAll},
	user.RoleStaff: {
		ScopeCandidaciesRead,
		ScopeCandidaciesWrite,
		ScopeResumesRead,
		ScopeNotificationsSend,
		ScopeContactsRead,
		ScopeContactsWrite,
		ScopeContactsReply,
	},
}

// ScopesForRole returns the scopes granted to role. Accounts without a role
// are treated as admins, matching accounts created before roles existed.
func ScopesForRole(role string) []string {
	if role == "" {
		return roleScopes[user.RoleAdmin]
	}
	return roleScopes[role]
}

func hasScope(granted []string, scope string) bool {
	return slices.Contains(granted, ScopeAll) || slices.Contains(granted, scope)
}
