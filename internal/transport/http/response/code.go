package response

// 业务码沿用 HTTP 语义；响应本身始终是 200
const (
	CodeOK                 = 0
	CodeBadRequest         = 400
	CodeUnauthorized       = 401
	CodePaymentRequired    = 402
	CodeForbidden          = 403
	CodeNotFound           = 404
	CodeTooManyRequests    = 429
	CodeServerError        = 500
	CodeServiceUnavailable = 503
	CodeTimeout            = 504
)

var CodeMsgMap = map[int]string{
	CodeOK:                 "OK",
	CodeBadRequest:         "Bad Request",
	CodeUnauthorized:       "Unauthorized",
	CodePaymentRequired:    "Payment Failed",
	CodeForbidden:          "Forbidden",
	CodeNotFound:           "Not Found",
	CodeTooManyRequests:    "Too Many Requests",
	CodeServerError:        "Internal Server Error",
	CodeServiceUnavailable: "Service Unavailable",
	CodeTimeout:            "Timeout",
}
