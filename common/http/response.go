package http

import "net/http"

// Response 统一响应结构
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// 预定义的响应码
const (
	CodeSuccess      = 0     // 成功
	CodeError        = -1    // 通用错误
	CodeInvalidParam = 10001 // 参数错误
	CodeUnauthorized = 10002 // 未授权
	CodeNotFound     = 10004 // 资源不存在
	CodeServerError  = 10005 // 服务器内部错误
	CodeUnavailable  = 10006 // 后端未启用
)

const (
	MsgSuccess      = "success"
	MsgInvalidParam = "invalid parameters"
	MsgUnauthorized = "unauthorized"
	MsgNotFound     = "not found"
	MsgServerError  = "internal server error"
	MsgUnavailable  = "service unavailable"
)

func NewResponse(code int, msg string, data any) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
		Data: data,
	}
}

// Success 成功响应
func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, NewResponse(CodeSuccess, MsgSuccess, data))
}

// ErrorWithCode 业务错误, HTTP 状态码仍为 200
func (c *Context) ErrorWithCode(code int, msg string) {
	c.JSON(http.StatusOK, NewResponse(code, msg, nil))
}

// BadRequest 400 错误请求
func (c *Context) BadRequest(msg string) {
	if msg == "" {
		msg = MsgInvalidParam
	}
	c.JSON(http.StatusBadRequest, NewResponse(CodeInvalidParam, msg, nil))
}

// Unauthorized 401 未授权
func (c *Context) Unauthorized(msg string) {
	if msg == "" {
		msg = MsgUnauthorized
	}
	c.ginCtx.AbortWithStatusJSON(http.StatusUnauthorized, NewResponse(CodeUnauthorized, msg, nil))
}

// NotFound 404 资源不存在
func (c *Context) NotFound(msg string) {
	if msg == "" {
		msg = MsgNotFound
	}
	c.JSON(http.StatusNotFound, NewResponse(CodeNotFound, msg, nil))
}

// ServiceUnavailable 503 依赖的后端未启用
func (c *Context) ServiceUnavailable(msg string) {
	if msg == "" {
		msg = MsgUnavailable
	}
	c.JSON(http.StatusServiceUnavailable, NewResponse(CodeUnavailable, msg, nil))
}

// InternalServerError 500 服务器内部错误
func (c *Context) InternalServerError(msg string) {
	if msg == "" {
		msg = MsgServerError
	}
	c.JSON(http.StatusInternalServerError, NewResponse(CodeServerError, msg, nil))
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  any   `json:"list"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

// SuccessWithPage 分页成功响应
func (c *Context) SuccessWithPage(list any, total int64, page, size int) {
	c.Success(&PageResponse{List: list, Total: total, Page: page, Size: size})
}
