package service

import (
	"testing"

	"github.com/dkv3/class-site/internal/core/domain"
)

func TestResolveRole(t *testing.T) {
	admin := &domain.User{Username: "alice", Role: domain.SomeRole(domain.RoleAdmin)}
	noRole := &domain.User{Username: "bob"}

	tests := []struct {
		name         string
		session      domain.OptionalRole
		entry        *domain.User
		wantRole     domain.Role
		wantRepaired bool
	}{
		{"entry matches session", domain.SomeRole(domain.RoleAdmin), admin, domain.RoleAdmin, false},
		{"entry wins over session", domain.SomeRole(domain.RoleStudent), admin, domain.RoleAdmin, true},
		{"entry fills missing session role", domain.NoRole(), admin, domain.RoleAdmin, true},
		{"entry without role is student", domain.SomeRole(domain.RoleAdmin), noRole, domain.RoleStudent, true},
		{"entry without role, session student", domain.SomeRole(domain.RoleStudent), noRole, domain.RoleStudent, false},
		{"no entry keeps session role", domain.SomeRole(domain.RoleAdmin), nil, domain.RoleAdmin, false},
		{"no entry, no role defaults to student", domain.NoRole(), nil, domain.RoleStudent, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			role, repaired := ResolveRole(tc.session, tc.entry)
			if role != tc.wantRole {
				t.Fatalf("role: want %s, got %s", tc.wantRole, role)
			}
			if repaired != tc.wantRepaired {
				t.Fatalf("repaired: want %v, got %v", tc.wantRepaired, repaired)
			}
		})
	}
}
