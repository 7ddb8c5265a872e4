package roster

import (
	"encoding/json"
	"strings"

	"github.com/yoniadmire/puppy-bowl/internal/domain/players"
)

// envelopeStatus is the header every upstream response carries next to its data.
type envelopeStatus struct {
	Success *bool           `json:"success"`
	Error   json.RawMessage `json:"error"`
}

// failure reports whether the envelope flags an error despite a 2xx status.
func (s envelopeStatus) failure() (string, bool) {
	if s.Success == nil || *s.Success {
		return "", false
	}
	return errorMessage(s.Error), true
}

func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var detail struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Message != "" {
		return detail.Message
	}
	return strings.TrimSpace(string(raw))
}

type enveloped interface {
	failure() (string, bool)
}

type playersEnvelope struct {
	envelopeStatus
	Data *struct {
		Players []players.Player `json:"players"`
	} `json:"data"`
}

type playerEnvelope struct {
	envelopeStatus
	Data *struct {
		Player *players.Player `json:"player"`
	} `json:"data"`
}

// createdEnvelope accepts both shapes the upstream has used for created players.
type createdEnvelope struct {
	envelopeStatus
	Data *struct {
		NewPlayer *players.Player `json:"newPlayer"`
		Player    *players.Player `json:"player"`
	} `json:"data"`
}

func (e createdEnvelope) player() *players.Player {
	if e.Data == nil {
		return nil
	}
	if e.Data.NewPlayer != nil {
		return e.Data.NewPlayer
	}
	return e.Data.Player
}
