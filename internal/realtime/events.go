package realtime

import "github.com/Harshitk-cp/frontdesk/internal/domain"

type eventType struct {
	Type string `json:"type"`
}

type sessionUpdate struct {
	Type    string         `json:"type"`
	Session sessionOptions `json:"session"`
}

type sessionOptions struct {
	Modalities        []string       `json:"modalities"`
	Instructions      string         `json:"instructions"`
	Voice             string         `json:"voice"`
	InputAudioFormat  string         `json:"input_audio_format"`
	OutputAudioFormat string         `json:"output_audio_format"`
	Transcription     *transcription `json:"input_audio_transcription,omitempty"`
	TurnDetection     turnDetection  `json:"turn_detection"`
	Tools             []functionTool `json:"tools"`
	ToolChoice        string         `json:"tool_choice"`
}

type transcription struct {
	Model string `json:"model"`
}

type turnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms"`
	SilenceDurationMs int     `json:"silence_duration_ms"`
}

type functionTool struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func toFunctionTools(specs []domain.ToolSpec) []functionTool {
	tools := make([]functionTool, 0, len(specs))
	for _, s := range specs {
		tools = append(tools, functionTool{
			Type:        "function",
			Name:        s.Name,
			Description: s.Description,
			Parameters:  s.JSONSchema(),
		})
	}
	return tools
}

type itemCreate struct {
	Type string `json:"type"`
	Item item   `json:"item"`
}

type item struct {
	Type    string        `json:"type"`
	Role    string        `json:"role,omitempty"`
	Content []itemContent `json:"content,omitempty"`
	CallID  string        `json:"call_id,omitempty"`
	Output  string        `json:"output,omitempty"`
}

type itemContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type audioAppend struct {
	Type  string `json:"type"`
	Audio string `json:"audio"`
}

// serverEvent holds the fields of every server event the bridge reads.
type serverEvent struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	CallID     string `json:"call_id"`
	Arguments  string `json:"arguments"`
	Delta      string `json:"delta"`
	Transcript string `json:"transcript"`
	Text       string `json:"text"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
