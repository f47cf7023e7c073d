package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/frontdesk/internal/config"
)

// SessionHandler describes how an external orchestrator should open a
// model session for this deployment.
type SessionHandler struct {
	profile    config.Profile
	voice      string
	dispatcher Dispatcher
}

func NewSessionHandler(profile config.Profile, voice string, dispatcher Dispatcher) *SessionHandler {
	return &SessionHandler{profile: profile, voice: voice, dispatcher: dispatcher}
}

type turnDetectionResponse struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms"`
	SilenceDurationMs int     `json:"silence_duration_ms"`
}

type sessionResponse struct {
	Profile       string                `json:"profile"`
	Instructions  string                `json:"instructions"`
	Greeting      string                `json:"greeting"`
	Voice         string                `json:"voice"`
	Modalities    []string              `json:"modalities"`
	TurnDetection turnDetectionResponse `json:"turn_detection"`
	Tools         []toolSpecResponse    `json:"tools"`
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := h.profile
	writeJSON(w, http.StatusOK, sessionResponse{
		Profile:      p.Name,
		Instructions: p.Instructions,
		Greeting:     p.Greeting,
		Voice:        h.voice,
		Modalities:   p.Modalities,
		TurnDetection: turnDetectionResponse{
			Type:              "server_vad",
			Threshold:         p.TurnDetection.Threshold,
			PrefixPaddingMs:   p.TurnDetection.PrefixPaddingMs,
			SilenceDurationMs: p.TurnDetection.SilenceDurationMs,
		},
		Tools: specsResponse(h.dispatcher.Tools()),
	})
}
