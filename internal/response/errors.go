package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrQuestionIndex  ErrCode = "QUESTION_INDEX_OUT_OF_RANGE"
	ErrAnswerKind     ErrCode = "ANSWER_KIND_MISMATCH"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Exam definitions ──────────────────────────────────────────────
	ErrExamNotAvailable    ErrCode = "EXAM_NOT_AVAILABLE"
	ErrNotExamAuthor       ErrCode = "NOT_EXAM_AUTHOR"
	ErrNotClassOwner       ErrCode = "NOT_CLASS_OWNER"
	ErrNotEnrolled         ErrCode = "NOT_ENROLLED"
	ErrDefinitionIntegrity ErrCode = "DEFINITION_INTEGRITY"
	ErrExamLocked          ErrCode = "EXAM_LOCKED"

	// ─── Attempt sessions ──────────────────────────────────────────────
	ErrAlreadyInProgress   ErrCode = "ALREADY_IN_PROGRESS"
	ErrSessionClosed       ErrCode = "SESSION_CLOSED"
	ErrDeadlineExceeded    ErrCode = "DEADLINE_EXCEEDED"
	ErrAttemptActive       ErrCode = "ATTEMPT_ACTIVE"
	ErrNotReviewable       ErrCode = "NOT_REVIEWABLE"
	ErrInvalidReviewPoints ErrCode = "INVALID_REVIEW_POINTS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrEmailTaken:
		return "This email is already registered."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrTeacherAccessOnly:
		return "This resource is restricted to teachers."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrQuestionIndex:
		return "The question index is outside the exam's question range."
	case ErrAnswerKind:
		return "The answer shape does not match the question kind."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Exam definitions ──────────────────────────────────────────────
	case ErrExamNotAvailable:
		return "This exam is not currently available."
	case ErrNotExamAuthor:
		return "You are not the author of this exam."
	case ErrNotClassOwner:
		return "You are not the teacher of this class."
	case ErrNotEnrolled:
		return "You are not enrolled in this class."
	case ErrDefinitionIntegrity:
		return "The declared total score does not equal the sum of question points."
	case ErrExamLocked:
		return "This exam already has attempts and can no longer be modified."

	// ─── Attempt sessions ──────────────────────────────────────────────
	case ErrAlreadyInProgress:
		return "An attempt for this exam is already in progress."
	case ErrSessionClosed:
		return "This attempt is no longer in progress."
	case ErrDeadlineExceeded:
		return "The attempt deadline has passed."
	case ErrAttemptActive:
		return "This attempt is still in progress."
	case ErrNotReviewable:
		return "Auto-graded questions cannot be manually reviewed."
	case ErrInvalidReviewPoints:
		return "The awarded points are outside the question's point budget."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
