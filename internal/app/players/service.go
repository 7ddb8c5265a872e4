package players

import (
	"context"
	"log/slog"

	"github.com/yoniadmire/puppy-bowl/internal/domain/players"
	"github.com/yoniadmire/puppy-bowl/internal/logging"
	"github.com/yoniadmire/puppy-bowl/internal/roster"
)

// MsgMissingFields is shown when the creation form is submitted with an empty field.
const MsgMissingFields = "Please fill out all fields!"

// Notifier is told when the roster changed so other open views can refresh.
type Notifier interface {
	Notify(ctx context.Context)
}

// Service runs the fetch-render-mutate cycle against the upstream roster API.
// It holds no roster state: every view is built from the fetch made for it.
type Service struct {
	api      roster.API
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a Service. notifier may be nil.
func NewService(api roster.API, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{api: api, notifier: notifier, logger: logger}
}

// Players fetches the roster for the list view.
func (s *Service) Players(ctx context.Context) ([]players.Player, error) {
	return s.api.ListPlayers(ctx)
}

// PlayerByID fetches a single player for the detail view.
func (s *Service) PlayerByID(ctx context.Context, id int) (players.Player, error) {
	return s.api.GetPlayer(ctx, id)
}

// SubmitResult describes the outcome of a creation form submission.
type SubmitResult struct {
	// Invalid is set when validation failed; nothing was sent upstream.
	Invalid bool
	Message string
	Values  players.NewPlayer

	Created   *players.Player
	CreateErr error

	// Players is the refreshed roster; RefreshErr is set when that fetch failed.
	Players    []players.Player
	RefreshErr error
}

// Submit validates the form fields, creates the player, then refreshes the roster whether or
// not the create succeeded.
func (s *Service) Submit(ctx context.Context, fields players.NewPlayer) SubmitResult {
	if err := fields.Validate(); err != nil {
		logging.Info(logging.FromContext(ctx, s.logger), "player form rejected", "error", err)
		return SubmitResult{Invalid: true, Message: MsgMissingFields, Values: fields}
	}

	var result SubmitResult
	created, err := s.api.CreatePlayer(ctx, fields)
	if err != nil {
		result.CreateErr = err
	} else {
		result.Created = &created
		s.notify(ctx)
	}

	result.Players, result.RefreshErr = s.api.ListPlayers(ctx)
	return result
}

// Remove deletes the player and, on success, refreshes the roster exactly once.
// A failed delete leaves the view as it was, so nothing is refetched.
func (s *Service) Remove(ctx context.Context, id int) ([]players.Player, error) {
	if err := s.api.DeletePlayer(ctx, id); err != nil {
		return nil, err
	}
	s.notify(ctx)
	return s.api.ListPlayers(ctx)
}

func (s *Service) notify(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.Notify(ctx)
	}
}
