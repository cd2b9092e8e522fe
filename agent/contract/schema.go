package contract

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// Terminal envelopes are what each specialist's finalize pass must emit. The
// declared output schema of a specialist is the JSON Schema reflected from its
// envelope type; the raw model output is validated against it before the typed
// unmarshal, so a malformed terminal value is rejected as a contract violation
// rather than coerced.

type SkillGapEnvelope struct {
	Analysis *SkillGapResult `json:"analysis,omitempty"`
	Error    *ToolError      `json:"error,omitempty"`
	Message  string          `json:"message,omitempty"`
}

type JobListEnvelope struct {
	Jobs    []JobRecord `json:"jobs,omitempty"`
	Error   *ToolError  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// CourseListEnvelope deliberately has no error field: the course schema is a
// sequence type, and "nothing matched" is an empty sequence plus a wrap-up
// message, not a failure.
type CourseListEnvelope struct {
	Courses []CourseRecord `json:"courses" jsonschema:"required"`
	Message string         `json:"message,omitempty"`
}

type DispatchEnvelope struct {
	Target string `json:"target" jsonschema:"required"`
	Reply  string `json:"reply,omitempty"`
}

// OutputSchemaFor compiles the declared output schema for a handler.
func OutputSchemaFor(agent AgentType) (*gojsonschema.Schema, error) {
	var envelope any
	switch agent {
	case AgentTypeDispatcher:
		envelope = &DispatchEnvelope{}
	case AgentTypeSkillGap:
		envelope = &SkillGapEnvelope{}
	case AgentTypeJobFinder:
		envelope = &JobListEnvelope{}
	case AgentTypeCourseRecommender:
		envelope = &CourseListEnvelope{}
	default:
		return nil, fmt.Errorf("%w: no output schema for agent=%s", ErrValidation, agent)
	}

	reflector := jsonschema.Reflector{
		DoNotReference: true,
		// Model output routinely omits optional fields; required-ness is
		// enforced semantically after the unmarshal.
		RequiredFromJSONSchemaTags: true,
	}
	doc := reflector.Reflect(envelope)
	// gojsonschema does not understand the 2020-12 $schema marker; without it
	// the validator falls back to hybrid draft detection.
	doc.Version = ""
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal schema for agent=%s: %v", ErrValidation, agent, err)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: compile schema for agent=%s: %v", ErrValidation, agent, err)
	}
	return compiled, nil
}

// ValidateEnvelope checks raw terminal JSON against a compiled schema and
// reports every violation in one error.
func ValidateEnvelope(schema *gojsonschema.Schema, raw []byte) error {
	if schema == nil {
		return fmt.Errorf("%w: output schema is nil", ErrValidation)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: terminal output is not valid JSON: %v", ErrSchemaViolation, err)
	}
	if !result.Valid() {
		detail := ""
		for i, desc := range result.Errors() {
			if i > 0 {
				detail += "; "
			}
			detail += desc.String()
		}
		return fmt.Errorf("%w: %s", ErrSchemaViolation, detail)
	}
	return nil
}
