package roster

import (
	"context"

	"github.com/yoniadmire/puppy-bowl/internal/domain/players"
)

// API is the contract of the upstream player collection.
type API interface {
	ListPlayers(ctx context.Context) ([]players.Player, error)
	GetPlayer(ctx context.Context, id int) (players.Player, error)
	CreatePlayer(ctx context.Context, fields players.NewPlayer) (players.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

// Operation names one upstream call; used for logs and metric attributes.
type Operation string

const (
	OpListPlayers  Operation = "list_players"
	OpGetPlayer    Operation = "get_player"
	OpCreatePlayer Operation = "create_player"
	OpDeletePlayer Operation = "delete_player"
)
