package domain

import "encoding/json"

type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamBoolean ParamType = "boolean"
)

type Param struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required"`
}

// ToolSpec describes a callable operation to the conversational model.
type ToolSpec struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
	Privileged  bool    `json:"privileged"`
}

// JSONSchema renders the parameters as the object schema expected by
// function-calling models.
func (s ToolSpec) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Params))
	required := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		props[p.Name] = map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// Call is a single tool invocation. Session scopes gate state such as
// attempt counters; it is the room participant or HTTP caller identity.
type Call struct {
	ID        string         `json:"call_id"`
	Session   string         `json:"session"`
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// DecodeArguments parses the JSON argument string emitted by the model.
func DecodeArguments(raw string) (map[string]any, error) {
	args := map[string]any{}
	if raw == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}

type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeForbidden Outcome = "forbidden"
	OutcomeFailure   Outcome = "failure"
	OutcomeDenied    Outcome = "denied"
	OutcomeLocked    Outcome = "locked"
	OutcomePrompt    Outcome = "prompt"
)

// Result is what the conversational layer speaks back.
type Result struct {
	CallID  string  `json:"call_id"`
	Tool    string  `json:"tool"`
	Output  string  `json:"output"`
	Outcome Outcome `json:"outcome"`
}
