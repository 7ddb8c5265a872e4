package roster

import (
	"context"
	"log/slog"
	"time"

	"github.com/yoniadmire/puppy-bowl/internal/domain/players"
	"github.com/yoniadmire/puppy-bowl/internal/logging"
	"github.com/yoniadmire/puppy-bowl/internal/metrics"
)

// instrumentedAPI wraps an API with per-operation metrics and failure logging.
type instrumentedAPI struct {
	inner   API
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewInstrumented decorates inner so every call is timed and every failure is logged once
// with a message naming the action (and player id, when there is one).
func NewInstrumented(inner API, logger *slog.Logger, recorder *metrics.Recorder) API {
	return &instrumentedAPI{
		inner:   inner,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

func (a *instrumentedAPI) ListPlayers(ctx context.Context) ([]players.Player, error) {
	start := a.now()
	items, err := a.inner.ListPlayers(ctx)
	a.observe(ctx, OpListPlayers, start, err, "trouble fetching players")
	if err == nil {
		a.debug(ctx, "fetched players", slog.Int(logging.FieldCount, len(items)))
	}
	return items, err
}

func (a *instrumentedAPI) GetPlayer(ctx context.Context, id int) (players.Player, error) {
	start := a.now()
	player, err := a.inner.GetPlayer(ctx, id)
	a.observe(ctx, OpGetPlayer, start, err, "trouble fetching player", slog.Int(logging.FieldPlayerID, id))
	return player, err
}

func (a *instrumentedAPI) CreatePlayer(ctx context.Context, fields players.NewPlayer) (players.Player, error) {
	start := a.now()
	player, err := a.inner.CreatePlayer(ctx, fields)
	a.observe(ctx, OpCreatePlayer, start, err, "trouble adding player to the roster")
	if err == nil {
		a.info(ctx, "player added", slog.Int(logging.FieldPlayerID, player.ID))
	}
	return player, err
}

func (a *instrumentedAPI) DeletePlayer(ctx context.Context, id int) error {
	start := a.now()
	err := a.inner.DeletePlayer(ctx, id)
	a.observe(ctx, OpDeletePlayer, start, err, "trouble removing player from the roster", slog.Int(logging.FieldPlayerID, id))
	if err == nil {
		a.info(ctx, "player removed", slog.Int(logging.FieldPlayerID, id))
	}
	return err
}

func (a *instrumentedAPI) observe(ctx context.Context, op Operation, start time.Time, err error, failureMsg string, args ...any) {
	duration := a.now().Sub(start)
	a.metrics.RecordAPICall(string(op), duration, err)
	if err == nil {
		return
	}

	args = append(args,
		slog.String(logging.FieldOperation, string(op)),
		slog.Int64(logging.FieldDurationMS, duration.Milliseconds()),
	)
	if statusErr, ok := AsHTTPStatusError(err); ok {
		args = append(args, slog.Int(logging.FieldStatusCode, statusErr.StatusCode))
	}
	logging.Error(logging.FromContext(ctx, a.logger), failureMsg, err, args...)
}

func (a *instrumentedAPI) info(ctx context.Context, msg string, args ...any) {
	logging.Info(logging.FromContext(ctx, a.logger), msg, args...)
}

func (a *instrumentedAPI) debug(ctx context.Context, msg string, args ...any) {
	logging.Debug(logging.FromContext(ctx, a.logger), msg, args...)
}
