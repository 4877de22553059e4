package authz

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix = "/api/v1"
	ruleTable   = "casbin_rule"
	rolePrefix  = "role:"
)

var (
	errServiceUnavailable = errors.New("authz service unavailable")
	errRoleRequired       = errors.New("role is required")
)

// 角色继承 + 路由模板匹配；p.act 为 * 时放行任意方法
const routeRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy 一条路由授权：Object 为去掉 /api/v1 的 gin 路由模板
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 按角色对路由授权，策略持久化在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 在 db 上加载已持久化的策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", ruleTable)
	if err != nil {
		return nil, fmt.Errorf("authz adapter: %w", err)
	}
	m, err := model.NewModelFromString(routeRBACModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz load policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return errServiceUnavailable
	}
	return nil
}

// EnforceRole role 可带或不带 role: 前缀，obj 可带 /api/v1 前缀
func (s *Service) EnforceRole(role, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return false, err
	}
	return s.enforcer.Enforce(subject, NormalizeObject(obj), NormalizeAction(act))
}

// GrantRolePolicy 重复授予同一策略不报错
func (s *Service) GrantRolePolicy(role, object, action string) error {
	if err := s.ready(); err != nil {
		return err
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	act := NormalizeAction(action)
	if act == "" {
		return errors.New("action is required")
	}
	if _, err := s.enforcer.AddPolicy(subject, NormalizeObject(object), act); err != nil {
		return fmt.Errorf("grant %s %s %s: %w", subject, object, act, err)
	}
	return nil
}

// InheritRole 令 child 继承 parent 的全部策略
func (s *Service) InheritRole(child, parent string) error {
	if err := s.ready(); err != nil {
		return err
	}
	from, err := NormalizeRole(child)
	if err != nil {
		return err
	}
	to, err := NormalizeRole(parent)
	if err != nil {
		return err
	}
	if from == to {
		return fmt.Errorf("role cannot inherit itself: %s", from)
	}
	if _, err := s.enforcer.AddGroupingPolicy(from, to); err != nil {
		return fmt.Errorf("link %s -> %s: %w", from, to, err)
	}
	return nil
}

// Roles 出现在策略或继承关系中的全部角色，按字典序
func (s *Service) Roles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	roles, err := s.enforcer.GetAllSubjects()
	if err != nil {
		return nil, err
	}
	links, err := s.enforcer.GetGroupingPolicy()
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		roles = append(roles, link...)
	}
	slices.Sort(roles)
	return slices.Compact(roles), nil
}

// RolePolicies 角色直接授予的策略，不含继承所得
func (s *Service) RolePolicies(role string) ([]Policy, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return nil, err
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) >= 3 {
			policies = append(policies, Policy{Subject: rule[0], Object: rule[1], Action: rule[2]})
		}
	}
	return policies, nil
}

// NormalizeRole "Order Support" / "role:order_support" 都归一为 role:order_support
func NormalizeRole(role string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(role), rolePrefix)
	name = strings.ToLower(strings.Join(strings.Fields(name), "_"))
	if name == "" {
		return "", errRoleRequired
	}
	return rolePrefix + name, nil
}

// NormalizeObject 去掉 /api/v1 前缀并补全前导斜杠
func NormalizeObject(object string) string {
	path := strings.TrimSpace(object)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == apiV1Prefix || strings.HasPrefix(path, apiV1Prefix+"/") {
		path = strings.TrimPrefix(path, apiV1Prefix)
	}
	if path == "" {
		return "/"
	}
	return path
}

// NormalizeAction HTTP 方法统一大写
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
