package response

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// ErrorData tells the client which error kind occurred and, for
// validation errors, which input field caused it.
type ErrorData struct {
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

// New keeps data non-null.
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error builds a failure envelope; an empty customMsg uses the code's default.
func Error(code int, customMsg string) Resp {
	return Fail(code, customMsg, ErrorData{Kind: kindOf(code)})
}

func Fail(code int, customMsg string, data ErrorData) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, data)
}

func kindOf(code int) string {
	switch code {
	case CodeUnauthorized:
		return "unauthorized"
	case CodeForbidden:
		return "forbidden"
	case CodeNotFound:
		return "not_found"
	case CodeConflict:
		return "conflict"
	case CodeValidation, CodeBadRequest, CodeTooLarge:
		return "validation"
	case CodeTooManyRequests, CodeUnavailable, CodeTimeout:
		return "unavailable"
	}
	return "internal"
}
