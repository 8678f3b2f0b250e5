package http

const (
	CodeUnknown          = "UNKNOWN"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeNotFound         = "NOT_FOUND"
	CodeRateLimited      = "RATE_LIMITED"
	CodeBodyTooLarge     = "REQUEST_BODY_TOO_LARGE"
	CodeInternal         = "INTERNAL_ERROR"
)
