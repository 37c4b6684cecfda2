package httpresp

const (
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrInsufficientRole = "insufficient permissions"
	ErrNotFound         = "not found"
	ErrInternal         = "internal server error"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type DeletedResponse struct {
	Deleted int `json:"deleted"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Message: message}
}

func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Message: message}
}

func NewDeletedResponse(n int) DeletedResponse {
	return DeletedResponse{Deleted: n}
}

func NewOKResponse() OKResponse {
	return OKResponse{OK: true}
}
