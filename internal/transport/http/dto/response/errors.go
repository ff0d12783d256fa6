package response

const (
	CodeInvalidRequest   = "invalid_request"
	CodeValidationFailed = "validation_failed"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal_error"
	CodeUnavailable      = "service_unavailable"
)

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   CodeInvalidRequest,
		Details: "Invalid request format",
	}

	ErrItemNotFound = ErrorResponse{
		Status:  "error",
		Error:   CodeNotFound,
		Details: "Gallery item not found",
	}

	ErrJobNotFound = ErrorResponse{
		Status:  "error",
		Error:   CodeNotFound,
		Details: "Generation job not found or expired",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   CodeInternal,
		Details: "Internal server error",
	}
)
