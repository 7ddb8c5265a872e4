package players

import (
	"errors"
	"strconv"
	"time"
)

// ErrMissingField is returned when a new player is missing one of its required fields.
var ErrMissingField = errors.New("players: missing required field")

// Player is a roster entry owned by the upstream API.
type Player struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Breed     string     `json:"breed"`
	Status    string     `json:"status,omitempty"`
	ImageURL  string     `json:"imageUrl"`
	TeamID    *int       `json:"teamId"`
	CohortID  int        `json:"cohortId,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// TeamLabel returns the team identifier, or "Unassigned" when the player has no team.
// A zero id is treated as no team.
func (p Player) TeamLabel() string {
	if p.TeamID == nil || *p.TeamID == 0 {
		return UnassignedTeam
	}
	return strconv.Itoa(*p.TeamID)
}

// UnassignedTeam is shown for players without a team.
const UnassignedTeam = "Unassigned"

// NewPlayer is the body sent upstream when adding a player to the roster.
type NewPlayer struct {
	Name     string `json:"name"`
	Breed    string `json:"breed"`
	ImageURL string `json:"imageUrl"`
}

// Validate checks presence only; the upstream API owns every other rule.
func (n NewPlayer) Validate() error {
	if n.Name == "" || n.Breed == "" || n.ImageURL == "" {
		return ErrMissingField
	}
	return nil
}
