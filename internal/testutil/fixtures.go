package testutil

import (
	"fmt"

	"github.com/yoniadmire/puppy-bowl/internal/domain/players"
)

// SamplePlayer returns a minimal player fixture with the provided id.
func SamplePlayer(id int) players.Player {
	return players.Player{
		ID:       id,
		Name:     fmt.Sprintf("Pup %d", id),
		Breed:    "Mutt",
		ImageURL: fmt.Sprintf("http://example.com/pups/%d.png", id),
	}
}

// SamplePlayers returns fixtures with ids 1..n.
func SamplePlayers(n int) []players.Player {
	items := make([]players.Player, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, SamplePlayer(i))
	}
	return items
}

// SampleNewPlayer returns a complete creation form payload.
func SampleNewPlayer() players.NewPlayer {
	return players.NewPlayer{Name: "Rex", Breed: "Lab", ImageURL: "http://x/rex.png"}
}
