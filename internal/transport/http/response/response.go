package response

import "github.com/gin-gonic/gin"

// ErrorBody 所有失败响应的统一结构，code 与 HTTP 状态码一致
type ErrorBody struct {
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}

// Error customMsg 为空时用默认文案
func Error(code int, customMsg string) ErrorBody {
	msg := customMsg
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	return ErrorBody{Code: code, Detail: msg}
}

// Abort 中间件里提前结束请求
func Abort(c *gin.Context, code int, customMsg string) {
	c.AbortWithStatusJSON(code, Error(code, customMsg))
}
