package authz

import (
	"fmt"

	"github.com/storefront-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleCustomer,
			Policies: []Policy{
				{Object: "/cart", Action: "GET"},
				{Object: "/checkout/summary", Action: "GET"},
				{Object: "/orders", Action: "GET"},
				{Object: "/orders", Action: "POST"},
				{Object: "/orders/:id", Action: "GET"},
				{Object: "/orders/:id", Action: "DELETE"},
				{Object: "/orders/:id/cancel", Action: "POST"},
			},
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleCustomer},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略（幂等，重复写入由 casbin 去重）
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return errServiceUnavailable
	}
	for _, seed := range BuiltinRoleSeeds() {
		for _, parent := range seed.Inherits {
			if err := s.InheritRole(seed.Role, parent); err != nil {
				return err
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy for %s failed: %w", seed.Role, err)
			}
		}
	}
	return nil
}
