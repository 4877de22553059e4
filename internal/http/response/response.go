package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// requestIDKey 与 router 中间件写入的上下文 key 保持一致
const requestIDKey = "request_id"

// Response 统一响应信封：HTTP 状态恒为 200，业务结果由 status_code 表达
type Response struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// BuildPagination 根据总数计算分页信息
func BuildPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

func write(c *gin.Context, body Response) {
	c.JSON(http.StatusOK, body)
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	write(c, Response{StatusCode: CodeOK, Msg: "success", Data: data})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	write(c, Response{StatusCode: CodeOK, Msg: "success", Data: data, Pagination: &pagination})
}

// Error 错误响应，data 中带上 request_id 便于排查
func Error(c *gin.Context, statusCode int, msg string) {
	ErrorWithData(c, statusCode, msg, nil)
}

// ErrorWithData 错误响应（带业务数据，如重复订单的 existing_order）
func ErrorWithData(c *gin.Context, statusCode int, msg string, data gin.H) {
	write(c, Response{StatusCode: statusCode, Msg: msg, Data: withRequestID(c, data)})
}

// NotFound 404响应
func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}

// Unauthorized 401响应
func Unauthorized(c *gin.Context, msg string) {
	Error(c, CodeUnauthorized, msg)
}

// Forbidden 403响应
func Forbidden(c *gin.Context, msg string) {
	Error(c, CodeForbidden, msg)
}

func withRequestID(c *gin.Context, data gin.H) interface{} {
	requestID := ""
	if c != nil {
		requestID = c.GetString(requestIDKey)
	}
	if requestID == "" {
		if data == nil {
			return nil
		}
		return data
	}
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data[requestIDKey]; !ok {
		data[requestIDKey] = requestID
	}
	return data
}
