package types

const (
	// ContextUserKey holds the resolved *models.User of the request.
	ContextUserKey = "user"
	// ContextUserIDKey holds the same user's id for logging.
	ContextUserIDKey = "user_id"
)

const (
	ResponseSuccess = "success"
	ResponseError   = "error"
)
