package main

import (
	"errors"
	"fmt"
)

// TeamID identifies one of the two fixed teams.
type TeamID string

const (
	TeamGirls TeamID = "girls"
	TeamBoys  TeamID = "boys"
)

// GamePhase drives which commands are legal at any point in a round.
type GamePhase string

const (
	PhaseLobby    GamePhase = "lobby"    // waiting for players
	PhaseFaceoff  GamePhase = "faceoff"  // race to buzz for first right to answer
	PhasePlay     GamePhase = "play"     // controlling team is guessing
	PhaseSteal    GamePhase = "steal"    // other team gets one chance
	PhaseReveal   GamePhase = "reveal"   // all answers shown
	PhaseComplete GamePhase = "complete" // game over
)

type QuestionType string

const (
	QuestionMultiple  QuestionType = "multiple"
	QuestionBuzzer    QuestionType = "buzzer"
	QuestionFastMoney QuestionType = "fastmoney"
)

// Scoring constants for buzzer-type questions, before multipliers.
const (
	buzzerRewardPoints  = 30
	buzzerPenaltyPoints = 10
	confettiThreshold   = 20
	maxStrikes          = 3
)

type Answer struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Points   int    `json:"points"`
	Revealed bool   `json:"revealed"`
}

type Question struct {
	ID              int          `json:"id"`
	Type            QuestionType `json:"type"`
	Question        string       `json:"question"`
	Category        string       `json:"category,omitempty"`
	Answers         []*Answer    `json:"answers"`
	CorrectAnswer   string       `json:"correctAnswer,omitempty"`
	MediaURL        string       `json:"mediaUrl,omitempty"`
	TimeLimit       int          `json:"timeLimit,omitempty"`
	PointMultiplier int          `json:"pointMultiplier,omitempty"`
}

// multiplier returns the question's point multiplier, defaulting to 1x.
func (q *Question) multiplier() int {
	if q.PointMultiplier > 0 {
		return q.PointMultiplier
	}
	return 1
}

func (q *Question) findAnswer(id int) *Answer {
	for _, a := range q.Answers {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// isTopAnswer reports whether the given answer id is the board's top answer,
// which earns a bonus highlight when revealed.
func (q *Question) isTopAnswer(id int) bool {
	if id == 0 {
		return true
	}
	return len(q.Answers) > 0 && q.Answers[0].ID == id
}

// Player identity is the websocket connection; a reconnect under the same
// name and team evicts the stale entry.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Team      TeamID `json:"team"`
	Connected bool   `json:"connected"`
}

type Team struct {
	ID          TeamID    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Score       int       `json:"score"`
	RoundPoints int       `json:"roundPoints"`
	Strikes     int       `json:"strikes"`
	Players     []*Player `json:"players"`
}

type Teams struct {
	Girls *Team `json:"girls"`
	Boys  *Team `json:"boys"`
}

// BuzzEvent records one accepted buzz. The timestamp is the server's
// monotonic clock at receipt, in milliseconds, never a client-reported time.
type BuzzEvent struct {
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Team       TeamID  `json:"team"`
	Timestamp  float64 `json:"timestamp"`
}

// GameState is the single authoritative aggregate. It is owned by the Hub's
// event loop and must never be mutated outside it.
type GameState struct {
	Phase                GamePhase   `json:"phase"`
	CurrentQuestionIndex int         `json:"currentQuestionIndex"`
	CurrentRound         int         `json:"currentRound"`
	Questions            []*Question `json:"questions"`
	Teams                Teams       `json:"teams"`

	// ActiveTeam doubles as "team eligible to steal" and transient UI
	// emphasis; ControllingTeam is the team currently answering. Admin
	// setActiveTeam overwrites both.
	ActiveTeam      *TeamID `json:"activeTeam"`
	ControllingTeam *TeamID `json:"controllingTeam"`

	BuzzOrder   []BuzzEvent `json:"buzzOrder"`
	IsLocked    bool        `json:"isLocked"`
	RoundPoints int         `json:"roundPoints"`

	TimerRunning  bool   `json:"timerRunning"`
	TimerEndTime  *int64 `json:"timerEndTime"` // unix millis deadline
	TimerDuration int    `json:"timerDuration"`

	// Transient UI triggers, auto-cleared by scheduled tasks.
	ShowWrongX            bool    `json:"showWrongX"`
	ShowConfetti          *TeamID `json:"showConfetti"`
	ShowDrinkingRules     bool    `json:"showDrinkingRules"`
	HighlightDrinkingRule *string `json:"highlightDrinkingRule"`
	QuestionVisible       bool    `json:"questionVisible"`
}

func newGameState(questions []*Question) *GameState {
	return &GameState{
		Phase:                PhaseLobby,
		CurrentQuestionIndex: 0,
		CurrentRound:         1,
		Questions:            questions,
		Teams: Teams{
			Girls: &Team{
				ID:      TeamGirls,
				Name:    "Girls",
				Color:   "#FF69B4",
				Players: []*Player{},
			},
			Boys: &Team{
				ID:      TeamBoys,
				Name:    "Boys",
				Color:   "#4169E1",
				Players: []*Player{},
			},
		},
		BuzzOrder:         []BuzzEvent{},
		IsLocked:          true,
		TimerDuration:     10,
		ShowDrinkingRules: true,
	}
}

// validate checks that a decoded aggregate is structurally usable: both
// team entries exist and any team reference points at a real team. A state
// built by newGameState always passes; one decoded from disk may not.
func (s *GameState) validate() error {
	if s.Teams.Girls == nil || s.Teams.Boys == nil {
		return errors.New("missing team entries")
	}
	if s.ActiveTeam != nil && s.team(*s.ActiveTeam) == nil {
		return fmt.Errorf("unknown active team %q", *s.ActiveTeam)
	}
	if s.ControllingTeam != nil && s.team(*s.ControllingTeam) == nil {
		return fmt.Errorf("unknown controlling team %q", *s.ControllingTeam)
	}
	return nil
}

func (s *GameState) team(id TeamID) *Team {
	switch id {
	case TeamGirls:
		return s.Teams.Girls
	case TeamBoys:
		return s.Teams.Boys
	}
	return nil
}

func (s *GameState) currentQuestion() *Question {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return nil
	}
	return s.Questions[s.CurrentQuestionIndex]
}

func (s *GameState) canNavigateTo(index int) bool {
	return index >= 0 && index < len(s.Questions)
}

// resetRound clears all per-question state: buzzers lock, strikes and round
// points zero out, teams lose control, and the question hides until the host
// reveals it. Answers of the current question are un-revealed in place.
func (s *GameState) resetRound() {
	s.BuzzOrder = []BuzzEvent{}
	s.IsLocked = true
	s.ShowWrongX = false
	s.RoundPoints = 0
	s.Teams.Girls.Strikes = 0
	s.Teams.Boys.Strikes = 0
	s.Teams.Girls.RoundPoints = 0
	s.Teams.Boys.RoundPoints = 0
	s.ActiveTeam = nil
	s.ControllingTeam = nil
	s.QuestionVisible = false

	if question := s.currentQuestion(); question != nil {
		for _, a := range question.Answers {
			a.Revealed = false
		}
	}
}

// removePlayerFromTeams drops the player from whichever roster holds it.
func (s *GameState) removePlayerFromTeams(playerID string) {
	for _, team := range []*Team{s.Teams.Girls, s.Teams.Boys} {
		dst := team.Players[:0]
		for _, p := range team.Players {
			if p.ID == playerID {
				continue
			}
			dst = append(dst, p)
		}
		team.Players = dst
	}
}

func oppositeTeam(team TeamID) TeamID {
	if team == TeamGirls {
		return TeamBoys
	}
	return TeamGirls
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	return score
}

// calculateRoundPoints recomputes the full round total from revealed answers.
// The live value is maintained incrementally; this is the authoritative form
// used to cross-check it.
func calculateRoundPoints(q *Question) int {
	total := 0
	for _, a := range q.Answers {
		if a.Revealed {
			total += a.Points * q.multiplier()
		}
	}
	return total
}

// buzzerPoints returns the signed score delta for judging a buzzer question.
func buzzerPoints(correct bool, multiplier int) int {
	if correct {
		return buzzerRewardPoints * multiplier
	}
	return -buzzerPenaltyPoints * multiplier
}

func shouldShowConfetti(points int) bool {
	return points >= confettiThreshold
}
