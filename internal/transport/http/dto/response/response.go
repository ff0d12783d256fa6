package response

type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorResponse struct {
	Status  string   `json:"status"`
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func SuccessWithMessage(data interface{}, message string) Response {
	return Response{
		Status:  "success",
		Data:    data,
		Message: message,
	}
}

func ErrorResponseWithDetails(err, details string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   err,
		Details: details,
	}
}

// ValidationFailed перечисляет все поля, не прошедшие проверку
func ValidationFailed(fields []string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   CodeValidationFailed,
		Details: "Request validation failed",
		Fields:  fields,
	}
}
