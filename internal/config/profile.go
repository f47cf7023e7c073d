package config

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in profile names.
const (
	ProfileVisitor = "visitor"
	ProfileKiosk   = "kiosk"
	ProfileIntent  = "intent"
)

// Payload shapes accepted by the registry's arrive-meeting endpoint.
const (
	ShapeCamel  = "camel"
	ShapePascal = "pascal"
)

//go:embed profiles/*.yaml
var builtinProfiles embed.FS

// Profile is the capability set of one agent deployment: which tools are
// exposed, which backend payload shape is expected and how the session opens.
type Profile struct {
	Name          string        `yaml:"name"`
	Tools         []string      `yaml:"tools"`
	Reconcile     bool          `yaml:"reconcile"`
	PayloadShape  string        `yaml:"payload_shape"`
	MeetingPIN    bool          `yaml:"meeting_pin"`
	Utterances    bool          `yaml:"utterances"`
	Instructions  string        `yaml:"instructions"`
	Greeting      string        `yaml:"greeting"`
	Modalities    []string      `yaml:"modalities"`
	TurnDetection TurnDetection `yaml:"turn_detection"`
}

type TurnDetection struct {
	Threshold         float64 `yaml:"threshold"`
	PrefixPaddingMs   int     `yaml:"prefix_padding_ms"`
	SilenceDurationMs int     `yaml:"silence_duration_ms"`
}

// Enabled reports whether the named tool is part of the profile.
func (p Profile) Enabled(tool string) bool {
	for _, t := range p.Tools {
		if t == tool {
			return true
		}
	}
	return false
}

// LoadProfile reads a profile from path, or the built-in profile name when
// path is empty.
func LoadProfile(path, name string) (Profile, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return Profile{}, fmt.Errorf("reading profile: %w", err)
		}
	} else {
		data, err = builtinProfiles.ReadFile("profiles/" + name + ".yaml")
		if err != nil {
			return Profile{}, fmt.Errorf("unknown profile %q (valid options: visitor, kiosk, intent)", name)
		}
	}
	return ParseProfile(data)
}

func ParseProfile(data []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile: %w", err)
	}
	p.setDefaults()

	switch p.PayloadShape {
	case ShapeCamel, ShapePascal:
	default:
		return Profile{}, fmt.Errorf("profile %q: unknown payload_shape %q", p.Name, p.PayloadShape)
	}
	if len(p.Tools) == 0 {
		return Profile{}, fmt.Errorf("profile %q: no tools enabled", p.Name)
	}
	return p, nil
}

func (p *Profile) setDefaults() {
	if p.PayloadShape == "" {
		p.PayloadShape = ShapeCamel
	}
	if p.Greeting == "" {
		p.Greeting = "Welcome! How can I assist you today?"
	}
	if len(p.Modalities) == 0 {
		p.Modalities = []string{"audio", "text"}
	}
	if p.TurnDetection.Threshold == 0 {
		p.TurnDetection.Threshold = 0.95
	}
	if p.TurnDetection.PrefixPaddingMs == 0 {
		p.TurnDetection.PrefixPaddingMs = 200
	}
	if p.TurnDetection.SilenceDurationMs == 0 {
		p.TurnDetection.SilenceDurationMs = 500
	}
}
