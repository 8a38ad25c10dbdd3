package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Meta       interface{} `json:"meta,omitempty"`
	Error      string      `json:"error,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     StatusSuccess,
		StatusCode: statusCode,
		Data:       data,
	}
}

// Paged wraps a page of results together with its pagination metadata.
func Paged(statusCode int, data interface{}, meta interface{}) Response {
	resp := Success(statusCode, data)
	resp.Meta = meta
	return resp
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     StatusError,
		StatusCode: statusCode,
		Error:      err,
	}
}

// ErrorWithData is an error response that still carries a result body, used
// when a request was processed but rejected as a whole.
func ErrorWithData(statusCode int, err string, data interface{}) Response {
	resp := Error(statusCode, err)
	resp.Data = data
	return resp
}
