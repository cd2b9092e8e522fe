package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
)

// Tool error codes shared between the tool layer and the boundary rendering.
const (
	ToolErrCodeRoleNotFound    = "role_not_found"
	ToolErrCodeSkillsRequired  = "skills_required"
	ToolErrCodeInvalidArgument = "invalid_argument"
	ToolErrCodeLookupFailed    = "lookup_failed"
	ToolErrCodeToolUnavailable = "tool_unavailable"
)
