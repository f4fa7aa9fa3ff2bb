package game

// Publisher is the fire-and-forget broadcast collaborator. Channel
// keys follow the "<gameType>:<gameId>" convention (GameRef.ChannelKey).
type Publisher interface {
	Publish(channelKey string, payload interface{}) error
}

// Game-update events broadcast after membership changes.
const (
	UpdatePlayerJoined = "player-joined"
	UpdatePlayerLeft   = "player-left"
	UpdateGameStatus   = "game-status"
)

// GameUpdateMessage is published on a game's channel after a join, a
// leave, or a status transition.
type GameUpdateMessage struct {
	MessageID string     `json:"messageId"`
	Game      GameRef    `json:"game"`
	Update    string     `json:"update"`
	Player    *Player    `json:"player,omitempty"`
	Status    GameStatus `json:"status,omitempty"`
}

// HandStateMessage wraps a dealt hand for subscribers of the game
// channel.
type HandStateMessage struct {
	MessageID string     `json:"messageId"`
	Game      GameRef    `json:"game"`
	Message   string     `json:"message"`
	HandState *HandState `json:"handState"`
}

// HandDealtMessage is the human-readable tag attached to a published
// hand state.
const HandDealtMessage = "Cards distributed successfully!"
