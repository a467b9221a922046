package main

// Inbound command types. Player commands act on the sender's own connection
// identity; admin commands are trusted and arrive from the host panel.
const (
	cmdPlayerJoin  = "player:join"
	cmdPlayerLeave = "player:leave"
	cmdBuzzerPress = "buzzer:press"

	cmdNextQuestion        = "admin:nextQuestion"
	cmdPrevQuestion        = "admin:prevQuestion"
	cmdGoToQuestion        = "admin:goToQuestion"
	cmdRevealAnswer        = "admin:revealAnswer"
	cmdHideAnswer          = "admin:hideAnswer"
	cmdRevealAll           = "admin:revealAll"
	cmdUpdateScore         = "admin:updateScore"
	cmdSetPhase            = "admin:setPhase"
	cmdSetActiveTeam       = "admin:setActiveTeam"
	cmdResetBuzzers        = "admin:resetBuzzers"
	cmdLockBuzzers         = "admin:lockBuzzers"
	cmdShowWrongX          = "admin:showWrongX"
	cmdHideWrongX          = "admin:hideWrongX"
	cmdAddStrike           = "admin:addStrike"
	cmdAwardPoints         = "admin:awardPoints"
	cmdResetRound          = "admin:resetRound"
	cmdCorrectAnswer       = "admin:correctAnswer"
	cmdStartTimer          = "admin:startTimer"
	cmdStopTimer           = "admin:stopTimer"
	cmdToggleDrinkingRules = "admin:toggleDrinkingRules"
	cmdShowQuestion        = "admin:showQuestion"
	cmdLoadContest         = "admin:loadContest"
	cmdGetCurrentContest   = "admin:getCurrentContest"
)

// ClientMessage is the single envelope for everything a client sends.
type ClientMessage struct {
	Type        string     `json:"type"`
	Name        string     `json:"name,omitempty"`        // player:join
	Team        *TeamID    `json:"team,omitempty"`        // player:join / updateScore / setActiveTeam (null clears) / awardPoints
	Index       *int       `json:"index,omitempty"`       // goToQuestion
	AnswerID    *int       `json:"answerId,omitempty"`    // revealAnswer / hideAnswer
	Delta       int        `json:"delta,omitempty"`       // updateScore
	Phase       *GamePhase `json:"phase,omitempty"`       // setPhase
	Locked      *bool      `json:"locked,omitempty"`      // lockBuzzers
	Correct     *bool      `json:"correct,omitempty"`     // correctAnswer
	Seconds     int        `json:"seconds,omitempty"`     // startTimer
	Show        *bool      `json:"show,omitempty"`        // toggleDrinkingRules
	Visible     *bool      `json:"visible,omitempty"`     // showQuestion
	ContestID   string     `json:"contestId,omitempty"`   // loadContest
	ResetScores bool       `json:"resetScores,omitempty"` // loadContest
}

// Messages sent to clients

// StateMessage carries the full authoritative state; sent on connect and
// after every accepted mutation.
type StateMessage struct {
	Type  string     `json:"type"` // "game:state"
	State *GameState `json:"state"`
}

// PlayerListMessage carries the full roster, disconnected players included.
type PlayerListMessage struct {
	Type    string    `json:"type"` // "player:list"
	Players []*Player `json:"players"`
}

// BuzzAcceptedMessage is sent only to the buzzing client.
type BuzzAcceptedMessage struct {
	Type     string `json:"type"` // "buzzer:accepted"
	PlayerID string `json:"playerId"`
	Position int    `json:"position"`
}

// BuzzRejectedMessage is sent only to the buzzing client.
type BuzzRejectedMessage struct {
	Type   string `json:"type"` // "buzzer:rejected"
	Reason string `json:"reason"`
}

// SoundMessage is a fire-and-forget cue for all clients; never persisted,
// never retried.
type SoundMessage struct {
	Type  string    `json:"type"` // "sound:play"
	Sound SoundType `json:"sound"`
}

// ContestLoadedMessage acknowledges a loadContest to the requester only.
type ContestLoadedMessage struct {
	Type          string `json:"type"` // "admin:contestLoaded"
	Success       bool   `json:"success"`
	ContestID     string `json:"contestId,omitempty"`
	QuestionCount int    `json:"questionCount,omitempty"`
	Error         string `json:"error,omitempty"`
}

// CurrentContestMessage answers getCurrentContest for the requester only.
type CurrentContestMessage struct {
	Type      string `json:"type"` // "admin:currentContest"
	ContestID string `json:"contestId"`
}

func newStateMessage(state *GameState) StateMessage {
	return StateMessage{Type: "game:state", State: state}
}

func newPlayerListMessage(players []*Player) PlayerListMessage {
	return PlayerListMessage{Type: "player:list", Players: players}
}

func newSoundMessage(sound SoundType) SoundMessage {
	return SoundMessage{Type: "sound:play", Sound: sound}
}
