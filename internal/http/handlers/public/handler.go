package public

import "github.com/storefront-next/internal/provider"

// Handler 顾客侧接口处理器入口
// 说明：身份由上游认证层提供，处理器只读取上下文中的 user_id。
type Handler struct {
	*provider.Container
}

// New 创建顾客侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
