package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Request body schemas.
const (
	freelancerSchema = `{
  "type": "object",
  "required": ["full_name", "email"],
  "properties": {
    "full_name": {"type": "string", "minLength": 1},
    "email": {"type": "string", "minLength": 3},
    "status": {"type": "string"},
    "language_pairs": {"type": "array", "items": {
      "type": "object",
      "required": ["source", "target"],
      "properties": {"source": {"type": "string"}, "target": {"type": "string"}}
    }},
    "rates": {"type": "array", "items": {
      "type": "object",
      "required": ["service", "unit", "amount"],
      "properties": {
        "service": {"type": "string"},
        "unit": {"type": "string"},
        "amount": {"type": "number", "minimum": 0},
        "currency": {"type": "string"}
      }
    }}
  }
}`

	stageSchema = `{
  "type": "object",
  "required": ["stage"],
  "properties": {"stage": {"type": "string", "minLength": 1}}
}`

	reportSchema = `{
  "type": "object",
  "required": ["freelancer_id", "report_type"],
  "properties": {
    "freelancer_id": {"type": "string", "minLength": 1},
    "report_type": {"enum": ["LQA", "QS"]},
    "lqa_score": {"type": ["number", "null"], "minimum": 0, "maximum": 100},
    "qs_score": {"type": ["number", "null"], "minimum": 0, "maximum": 5},
    "lqa_words_reviewed": {"type": "integer", "minimum": 0},
    "lqa_errors": {"type": "array", "items": {
      "type": "object",
      "required": ["error_type", "severity", "count"],
      "properties": {
        "error_type": {"type": "string"},
        "severity": {"enum": ["Critical", "Major", "Minor", "Preferential"]},
        "count": {"type": "integer", "minimum": 0},
        "examples": {"type": "string"}
      }
    }},
    "reviewer_comments": {"type": "string"},
    "project_name": {"type": "string"},
    "client_name": {"type": "string"},
    "source_language": {"type": "string"},
    "target_language": {"type": "string"}
  }
}`

	transitionSchema = `{
  "type": "object",
  "required": ["action"],
  "properties": {
    "action": {"type": "string", "minLength": 1},
    "comments": {"type": "string"}
  }
}`

	settingsSchema = `{
  "type": "object",
  "required": ["lqa_weight", "qs_multiplier", "dispute_period_days"],
  "properties": {
    "lqa_weight": {"type": "number", "minimum": 0},
    "qs_multiplier": {"type": "number", "minimum": 0},
    "dispute_period_days": {"type": "integer", "minimum": 1, "maximum": 365}
  }
}`

	quizSchema = `{
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "source_language": {"type": "string"},
    "target_language": {"type": "string"},
    "passing_score": {"type": "integer", "minimum": 0, "maximum": 100},
    "time_limit_minutes": {"type": "integer", "minimum": 0},
    "active": {"type": "boolean"}
  }
}`

	questionSchema = `{
  "type": "object",
  "required": ["question_type", "question_text", "correct_answer", "points"],
  "properties": {
    "order": {"type": "integer", "minimum": 0},
    "question_type": {"enum": ["multiple_choice", "true_false", "multi_select"]},
    "question_text": {"type": "string", "minLength": 1},
    "options": {"type": "array", "items": {"type": "string"}},
    "correct_answer": {"type": "string", "minLength": 1},
    "points": {"type": "number", "minimum": 0},
    "explanation": {"type": "string"}
  }
}`

	attemptSchema = `{
  "type": "object",
  "required": ["answers"],
  "properties": {
    "freelancer_id": {"type": "string"},
    "answers": {"type": "object", "additionalProperties": {"type": "string"}},
    "started_at": {"type": "string", "format": "date-time"}
  }
}`

	assignmentSchema = `{
  "type": "object",
  "required": ["quiz_id", "freelancer_id"],
  "properties": {
    "quiz_id": {"type": "string", "minLength": 1},
    "freelancer_id": {"type": "string", "minLength": 1},
    "deadline": {"type": ["string", "null"], "format": "date-time"}
  }
}`
)

// schemas holds compiled request schemas by name.
type schemas map[string]*gojsonschema.Schema

func compileSchemas() (schemas, error) {
	src := map[string]string{
		"freelancer": freelancerSchema,
		"stage":      stageSchema,
		"report":     reportSchema,
		"transition": transitionSchema,
		"settings":   settingsSchema,
		"quiz":       quizSchema,
		"question":   questionSchema,
		"attempt":    attemptSchema,
		"assignment": assignmentSchema,
	}
	out := make(schemas, len(src))
	for name, s := range src {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", name, err)
		}
		out[name] = compiled
	}
	return out, nil
}

// validate checks body against the named schema.
func (s schemas) validate(name string, body []byte) error {
	sc, ok := s[name]
	if !ok {
		return fmt.Errorf("no schema %q", name)
	}
	result, err := sc.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
