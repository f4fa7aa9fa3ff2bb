package game

import (
	"sync"
	"time"
)

// fakePublisher records publishes for assertions.
type fakePublisher struct {
	lock      sync.Mutex
	published []publishedMessage
	failWith  error
}

type publishedMessage struct {
	channelKey string
	payload    interface{}
}

func (f *fakePublisher) Publish(channelKey string, payload interface{}) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.published = append(f.published, publishedMessage{channelKey: channelKey, payload: payload})
	return nil
}

func (f *fakePublisher) messages() []publishedMessage {
	f.lock.Lock()
	defer f.lock.Unlock()
	result := make([]publishedMessage, len(f.published))
	copy(result, f.published)
	return result
}

func newCashGame(playersPerTable uint32) *CashGame {
	return &CashGame{
		GameInfo: GameInfo{
			Name:            "friday night cash",
			Status:          GameStatusWaiting,
			StartDateTime:   time.Now().Add(1 * time.Hour),
			PlayersPerTable: playersPerTable,
		},
		StartingChips: 5000,
		BlindsSmall:   25,
		BlindsBig:     50,
		Duration:      Duration3Hr,
	}
}

func newTournamentGame(playersPerTable uint32, lateReg LateRegistration) *TournamentGame {
	return &TournamentGame{
		GameInfo: GameInfo{
			Name:            "sunday deepstack",
			Status:          GameStatusWaiting,
			StartDateTime:   time.Now().Add(1 * time.Hour),
			PlayersPerTable: playersPerTable,
		},
		NumberOfRebuys:           2,
		RebuyPeriod:              RebuyPeriod60Min,
		AddOn:                    true,
		StartingChips:            10000,
		GameSpeed:                GameSpeedMedium,
		LateRegistrationDuration: lateReg,
	}
}
