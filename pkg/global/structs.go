package global

// Error codes returned in ValidationError.Code
const (
	CodeValidation         = "validation_error"
	CodeNotFound           = "not_found"
	CodeAuthRequired       = "auth_required"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeDuplicateEmail     = "duplicate_email"
	CodeEmptyCart          = "empty_cart"
	CodeUpstream           = "upstream_unavailable"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type APIResponse struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

func SuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

func ErrorResponse(message string, errors []ValidationError) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// CodedError is an ErrorResponse carrying a single coded error for field
func CodedError(message, field, code string) APIResponse {
	return ErrorResponse(message, []ValidationError{
		{Field: field, Message: message, Code: code},
	})
}
