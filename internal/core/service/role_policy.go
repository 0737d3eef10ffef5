package service

import "github.com/dkv3/class-site/internal/core/domain"

// ResolveRole decides the role a restored session must carry.
//
//	directory entry present        → entry role (missing = student)
//	no entry, session role present → session role, unchanged
//	no entry, no session role      → student
//
// repaired reports whether the result differs from the session's role.
func ResolveRole(sessionRole domain.OptionalRole, entry *domain.User) (role domain.Role, repaired bool) {
	current, ok := sessionRole.Get()
	if entry != nil {
		role = entry.Role.OrStudent()
		return role, !ok || current != role
	}
	if ok {
		return current, false
	}
	return domain.RoleStudent, true
}
