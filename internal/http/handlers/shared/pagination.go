package shared

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageQuery 列表分页参数；Paged 为 false 表示调用方未请求分页
type PageQuery struct {
	Page     int
	PageSize int
	Paged    bool
}

// PageFromQuery 读取 page / page_size；requirePageSize 为 true 时缺省 page_size 视为不分页
func PageFromQuery(c *gin.Context, requirePageSize bool) PageQuery {
	rawSize := strings.TrimSpace(c.Query("page_size"))
	if rawSize == "" && requirePageSize {
		return PageQuery{}
	}
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	pageSize, _ := strconv.Atoi(rawSize)
	page, pageSize = NormalizePagination(page, pageSize)
	return PageQuery{Page: page, PageSize: pageSize, Paged: true}
}

// NormalizePagination 页码至少为 1，page_size 缺省 20、上限 100
func NormalizePagination(page, pageSize int) (int, int) {
	page = max(page, 1)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return page, min(pageSize, maxPageSize)
}
