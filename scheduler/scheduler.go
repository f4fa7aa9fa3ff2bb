package scheduler

import (
	"context"
	"time"

	"github.com/Degen-IO/pokerbackend/game"
	"github.com/Degen-IO/pokerbackend/logging"
)

var schedulerLogger = logging.GetZeroLogger("scheduler::games", nil)

// Scheduler advances game statuses on a timer: waiting games become
// ongoing at their scheduled start, and fixed-duration cash games are
// finished once their session window elapses. It drives the same
// status-update operation the engine already exposes.
type Scheduler struct {
	games    game.GameStore
	manager  *game.Manager
	interval time.Duration
	now      func() time.Time
}

func New(games game.GameStore, manager *game.Manager, interval time.Duration) *Scheduler {
	return &Scheduler{
		games:    games,
		manager:  manager,
		interval: interval,
		now:      time.Now,
	}
}

// Run blocks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single scheduling pass.
func (s *Scheduler) RunOnce(ctx context.Context) {
	now := s.now()
	s.startDueGames(ctx, game.GameTypeCash, now)
	s.startDueGames(ctx, game.GameTypeTournament, now)
	s.finishExpiredCashGames(ctx, now)
}

func (s *Scheduler) startDueGames(ctx context.Context, gameType game.GameType, now time.Time) {
	waiting, err := s.games.GamesByStatus(ctx, gameType, game.GameStatusWaiting)
	if err != nil {
		schedulerLogger.Error().Msgf("Unable to list waiting %s games: %s", gameType, err)
		return
	}
	for _, g := range waiting {
		if g.Info().StartDateTime.After(now) {
			continue
		}
		ref := g.Ref()
		err := s.manager.UpdateGameStatus(ctx, ref.ID, ref.Type, game.GameStatusOngoing)
		if err != nil {
			schedulerLogger.Error().
				Str(logging.GameIDKey, ref.ChannelKey()).
				Msgf("Unable to start game: %s", err)
			continue
		}
		schedulerLogger.Info().
			Str(logging.GameIDKey, ref.ChannelKey()).
			Msg("Game started")
	}
}

func (s *Scheduler) finishExpiredCashGames(ctx context.Context, now time.Time) {
	ongoing, err := s.games.GamesByStatus(ctx, game.GameTypeCash, game.GameStatusOngoing)
	if err != nil {
		schedulerLogger.Error().Msgf("Unable to list ongoing cash games: %s", err)
		return
	}
	for _, g := range ongoing {
		cashGame, ok := g.(*game.CashGame)
		if !ok {
			continue
		}
		window, fixed := cashGame.Duration.FixedWindow()
		if !fixed {
			// Unlimited and manual games end by explicit request.
			continue
		}
		if cashGame.StartDateTime.Add(window).After(now) {
			continue
		}
		ref := g.Ref()
		err := s.manager.UpdateGameStatus(ctx, ref.ID, ref.Type, game.GameStatusFinished)
		if err != nil {
			schedulerLogger.Error().
				Str(logging.GameIDKey, ref.ChannelKey()).
				Msgf("Unable to finish game: %s", err)
			continue
		}
		schedulerLogger.Info().
			Str(logging.GameIDKey, ref.ChannelKey()).
			Msg("Game finished after its fixed duration")
	}
}
