package testutil

import (
	"context"
	"sync"

	"github.com/yoniadmire/puppy-bowl/internal/domain/players"
)

// StubAPI is an in-memory roster.API that records every call.
// Successful creates append to Roster and successful deletes remove from it,
// so a refresh after a mutation reflects the change.
type StubAPI struct {
	mu sync.Mutex

	Roster    []players.Player
	ListErr   error
	GetErr    error
	CreateErr error
	DeleteErr error
	NextID    int

	ListCalls  int
	GetIDs     []int
	Created    []players.NewPlayer
	DeletedIDs []int
	Calls      []string
}

// NewStubAPI returns a stub preloaded with the given roster.
func NewStubAPI(roster ...players.Player) *StubAPI {
	return &StubAPI{Roster: roster, NextID: 100}
}

func (s *StubAPI) ListPlayers(ctx context.Context) ([]players.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	s.Calls = append(s.Calls, "list")
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]players.Player, len(s.Roster))
	copy(out, s.Roster)
	return out, nil
}

func (s *StubAPI) GetPlayer(ctx context.Context, id int) (players.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetIDs = append(s.GetIDs, id)
	s.Calls = append(s.Calls, "get")
	if s.GetErr != nil {
		return players.Player{}, s.GetErr
	}
	for _, p := range s.Roster {
		if p.ID == id {
			return p, nil
		}
	}
	return SamplePlayer(id), nil
}

func (s *StubAPI) CreatePlayer(ctx context.Context, fields players.NewPlayer) (players.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Created = append(s.Created, fields)
	s.Calls = append(s.Calls, "create")
	if s.CreateErr != nil {
		return players.Player{}, s.CreateErr
	}
	s.NextID++
	created := players.Player{ID: s.NextID, Name: fields.Name, Breed: fields.Breed, ImageURL: fields.ImageURL}
	s.Roster = append(s.Roster, created)
	return created, nil
}

func (s *StubAPI) DeletePlayer(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeletedIDs = append(s.DeletedIDs, id)
	s.Calls = append(s.Calls, "delete")
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	kept := s.Roster[:0]
	for _, p := range s.Roster {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.Roster = kept
	return nil
}

// CountingNotifier records roster-changed notifications.
type CountingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *CountingNotifier) Notify(ctx context.Context) {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
}

// Calls returns how many notifications were sent.
func (n *CountingNotifier) Calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}
