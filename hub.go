package main

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// Durations for the transient UI flags and their scheduled auto-clears.
const (
	wrongXFlashDuration     = 2 * time.Second
	highlightPulseDuration  = 3 * time.Second
	strikeHighlightDuration = 2 * time.Second
	awardConfettiDuration   = 4 * time.Second
	buzzerConfettiDuration  = 3 * time.Second
)

type Client struct {
	conn *websocket.Conn
	send chan any
	id   string
}

type inbound struct {
	client *Client
	msg    ClientMessage
}

// Hub owns the single GameState and the player registry. All mutation
// happens on the run loop goroutine; handlers, scheduled tasks, and
// broadcasts re-enter through its channels, so the aggregate needs no lock.
type Hub struct {
	cfg *Config

	clients map[*Client]bool
	players map[string]*Player
	order   []string // player ids in join order, drives the roster push

	register chan *Client
	unreg    chan *Client
	inbox    chan inbound
	tasks    chan func()
	done     chan struct{}

	state     *GameState
	contestID string
	contests  *contestDir
	snapshots *snapshotStore

	epoch time.Time // base for monotonic buzz timestamps

	// Generation counters invalidate pending auto-clears: any newer
	// mutation of a flag bumps its counter, and a stale scheduled clear
	// that fires afterwards sees the mismatch and does nothing.
	wrongXGen    uint64
	highlightGen uint64
	confettiGen  uint64
	timerGen     uint64
}

// newHub restores the last snapshot if one exists, clearing rosters and buzz
// order since connections do not survive a restart. Otherwise it loads the
// configured initial contest.
func newHub(cfg *Config, contests *contestDir, snapshots *snapshotStore) (*Hub, error) {
	h := &Hub{
		cfg:       cfg,
		clients:   make(map[*Client]bool),
		players:   make(map[string]*Player),
		register:  make(chan *Client),
		unreg:     make(chan *Client),
		inbox:     make(chan inbound),
		tasks:     make(chan func(), 16),
		done:      make(chan struct{}),
		contests:  contests,
		snapshots: snapshots,
		epoch:     time.Now(),
	}

	record, err := snapshots.load()
	if err != nil {
		log.Printf("ERROR: restoring snapshot: %v", err)
	}

	if record != nil {
		record.GameState.Teams.Girls.Players = []*Player{}
		record.GameState.Teams.Boys.Players = []*Player{}
		record.GameState.BuzzOrder = []BuzzEvent{}
		h.state = record.GameState
		h.contestID = record.ContestID
		logf(cfg, "GAME: Restored contest %q from snapshot saved %s", record.ContestID, record.SavedAt.Format(logDate))
		return h, nil
	}

	questions, err := contests.load(cfg.contest)
	if err != nil {
		return nil, err
	}

	h.state = newGameState(questions)
	h.contestID = cfg.contest
	logf(cfg, "GAME: Loaded contest %q with %d questions", cfg.contest, len(questions))

	return h, nil
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.sendTo(c, newStateMessage(h.state))
			h.sendTo(c, newPlayerListMessage(h.playerList()))

		case c := <-h.unreg:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			if player, ok := h.players[c.id]; ok {
				player.Connected = false
				logf(h.cfg, "GAME: Player %q disconnected", player.Name)
				h.broadcastPlayerList()
			}

		case in := <-h.inbox:
			h.handleCommand(in.client, in.msg)

		case task := <-h.tasks:
			task()

		case <-h.done:
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		}
	}
}

func (h *Hub) stop() {
	close(h.done)
}

// after schedules fn to run on the hub loop once d elapses. The callback is
// dropped if the hub shuts down first.
func (h *Hub) after(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		select {
		case h.tasks <- fn:
		case <-h.done:
		}
	})
}

// now returns milliseconds since the hub started, from the monotonic clock.
func (h *Hub) now() float64 {
	return float64(time.Since(h.epoch).Nanoseconds()) / 1e6
}

func (h *Hub) playerList() []*Player {
	players := make([]*Player, 0, len(h.order))
	for _, id := range h.order {
		if p, ok := h.players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

func (h *Hub) sendTo(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(msg any) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// broadcastState fans the full state out to every surface and snapshots it.
// A failed snapshot write is logged; the in-memory state stays authoritative.
func (h *Hub) broadcastState() {
	h.broadcast(newStateMessage(h.state))

	if err := h.snapshots.save(h.contestID, h.state); err != nil {
		log.Printf("ERROR: %v", err)
	}
}

func (h *Hub) broadcastPlayerList() {
	h.broadcast(newPlayerListMessage(h.playerList()))
}

func (h *Hub) broadcastSound(sound SoundType) {
	h.broadcast(newSoundMessage(sound))
}

// handleCommand is the protocol's state machine: one exhaustive dispatch
// over every command a connection may issue. Malformed or out-of-precondition
// commands fall through without mutating anything; only buzzer:press and
// admin:loadContest always answer the requester.
func (h *Hub) handleCommand(c *Client, msg ClientMessage) {
	switch msg.Type {
	case cmdPlayerJoin:
		h.handleJoin(c, msg)
	case cmdPlayerLeave:
		h.handleLeave(c)
	case cmdBuzzerPress:
		h.handleBuzz(c)
	case cmdNextQuestion:
		h.goToQuestion(h.state.CurrentQuestionIndex + 1)
	case cmdPrevQuestion:
		h.goToQuestion(h.state.CurrentQuestionIndex - 1)
	case cmdGoToQuestion:
		if msg.Index != nil {
			h.goToQuestion(*msg.Index)
		}
	case cmdRevealAnswer:
		if msg.AnswerID != nil {
			h.revealAnswer(*msg.AnswerID)
		}
	case cmdHideAnswer:
		if msg.AnswerID != nil {
			h.hideAnswer(*msg.AnswerID)
		}
	case cmdRevealAll:
		h.revealAll()
	case cmdUpdateScore:
		if msg.Team != nil {
			h.updateScore(*msg.Team, msg.Delta)
		}
	case cmdSetPhase:
		if msg.Phase != nil {
			h.setPhase(*msg.Phase)
		}
	case cmdSetActiveTeam:
		h.setActiveTeam(msg.Team)
	case cmdResetBuzzers:
		h.state.BuzzOrder = []BuzzEvent{}
		h.state.IsLocked = false
		h.broadcastState()
	case cmdLockBuzzers:
		if msg.Locked != nil {
			h.state.IsLocked = *msg.Locked
			h.broadcastState()
		}
	case cmdShowWrongX:
		h.flashWrongX()
		h.broadcastSound(SoundWrong)
		h.broadcastState()
	case cmdHideWrongX:
		h.wrongXGen++
		h.state.ShowWrongX = false
		h.broadcastState()
	case cmdAddStrike:
		h.addStrike()
	case cmdAwardPoints:
		if msg.Team != nil {
			h.awardPoints(*msg.Team)
		}
	case cmdResetRound:
		h.state.resetRound()
		h.state.Phase = PhaseFaceoff
		h.broadcastState()
	case cmdCorrectAnswer:
		if msg.Correct != nil {
			h.judgeBuzzerAnswer(*msg.Correct)
		}
	case cmdStartTimer:
		h.startTimer(msg.Seconds)
	case cmdStopTimer:
		h.stopTimer()
		h.broadcastState()
	case cmdToggleDrinkingRules:
		if msg.Show != nil {
			h.state.ShowDrinkingRules = *msg.Show
			h.broadcastState()
		}
	case cmdShowQuestion:
		if msg.Visible != nil {
			h.state.QuestionVisible = *msg.Visible
			if *msg.Visible {
				h.state.IsLocked = false
			}
			h.broadcastState()
		}
	case cmdLoadContest:
		h.loadContest(c, msg.ContestID, msg.ResetScores)
	case cmdGetCurrentContest:
		h.sendTo(c, CurrentContestMessage{Type: "admin:currentContest", ContestID: h.contestID})
	default:
		// unknown types are ignored
	}
}

// handleJoin registers the connection as a player. A reconnect under the
// same name and team evicts the stale entry, so refreshing a phone never
// duplicates a roster slot.
func (h *Hub) handleJoin(c *Client, msg ClientMessage) {
	if msg.Name == "" || msg.Team == nil {
		return
	}

	team := h.state.team(*msg.Team)
	if team == nil {
		return
	}

	for _, id := range h.order {
		existing := h.players[id]
		if existing != nil && existing.Name == msg.Name && existing.Team == *msg.Team {
			h.removePlayer(existing.ID)
			break
		}
	}

	player := &Player{
		ID:        c.id,
		Name:      msg.Name,
		Team:      *msg.Team,
		Connected: true,
	}

	h.players[c.id] = player
	h.order = append(h.order, c.id)
	team.Players = append(team.Players, player)

	logf(h.cfg, "GAME: Player %q joined team %s", player.Name, player.Team)

	h.broadcastPlayerList()
	h.broadcastState()
}

func (h *Hub) handleLeave(c *Client) {
	if _, ok := h.players[c.id]; !ok {
		return
	}

	h.removePlayer(c.id)

	h.broadcastPlayerList()
	h.broadcastState()
}

// removePlayer drops the player from the registry and the team roster.
func (h *Hub) removePlayer(playerID string) {
	delete(h.players, playerID)

	dst := h.order[:0]
	for _, id := range h.order {
		if id == playerID {
			continue
		}
		dst = append(dst, id)
	}
	h.order = dst

	h.state.removePlayerFromTeams(playerID)
}

// handleBuzz runs the race resolver and always answers the requester with an
// accept (including the assigned position) or a reject with a reason.
func (h *Hub) handleBuzz(c *Client) {
	player := h.players[c.id]

	position, reason := resolveBuzz(h.state, player, h.now())
	if reason != "" {
		h.sendTo(c, BuzzRejectedMessage{Type: "buzzer:rejected", Reason: reason})
		return
	}

	h.sendTo(c, BuzzAcceptedMessage{Type: "buzzer:accepted", PlayerID: c.id, Position: position})
	h.broadcastSound(SoundBuzzer)
	h.broadcastState()

	logf(h.cfg, "GAME: Buzzer %q (%s) at position %d", player.Name, player.Team, position)
}

// goToQuestion navigates to a question by index. Out-of-range indices are
// no-ops. Navigation starts a fresh round: buzzers lock, strikes and round
// points reset, and the new question's answers start hidden.
func (h *Hub) goToQuestion(index int) {
	if !h.state.canNavigateTo(index) {
		return
	}

	h.state.CurrentQuestionIndex = index
	h.state.resetRound()
	h.state.Phase = PhaseFaceoff
	h.state.CurrentRound = index + 1

	h.broadcastState()
}

func (h *Hub) revealAnswer(answerID int) {
	question := h.state.currentQuestion()
	if question == nil {
		return
	}

	answer := question.findAnswer(answerID)
	if answer == nil || answer.Revealed {
		return
	}

	answer.Revealed = true
	h.state.RoundPoints += answer.Points * question.multiplier()

	// Top answer earns the drinking-rule highlight pulse.
	if question.isTopAnswer(answerID) {
		h.pulseHighlight("top-answer", highlightPulseDuration)
	}

	h.broadcastSound(SoundReveal)
	h.broadcastState()
}

func (h *Hub) hideAnswer(answerID int) {
	question := h.state.currentQuestion()
	if question == nil {
		return
	}

	answer := question.findAnswer(answerID)
	if answer == nil || !answer.Revealed {
		return
	}

	answer.Revealed = false
	h.state.RoundPoints -= answer.Points * question.multiplier()

	h.broadcastState()
}

func (h *Hub) revealAll() {
	question := h.state.currentQuestion()
	if question == nil {
		return
	}

	for _, answer := range question.Answers {
		if !answer.Revealed {
			answer.Revealed = true
			h.state.RoundPoints += answer.Points * question.multiplier()
		}
	}
	h.state.Phase = PhaseReveal

	h.broadcastSound(SoundReveal)
	h.broadcastState()
}

func (h *Hub) updateScore(teamID TeamID, delta int) {
	team := h.state.team(teamID)
	if team == nil {
		return
	}

	team.Score = clampScore(team.Score + delta)

	h.broadcastState()
}

func validPhase(phase GamePhase) bool {
	switch phase {
	case PhaseLobby, PhaseFaceoff, PhasePlay, PhaseSteal, PhaseReveal, PhaseComplete:
		return true
	}
	return false
}

// setPhase is a direct admin override: any phase is reachable. Entering
// faceoff opens a fresh buzz race; entering play closes it.
func (h *Hub) setPhase(phase GamePhase) {
	if !validPhase(phase) {
		return
	}

	h.state.Phase = phase

	switch phase {
	case PhaseFaceoff:
		h.state.IsLocked = false
		h.state.BuzzOrder = []BuzzEvent{}
	case PhasePlay:
		h.state.IsLocked = true
	}

	h.broadcastState()
}

// setActiveTeam hands control to a team (or clears it with nil). Both the
// active and controlling fields are overwritten together, play begins, and
// buzzers lock.
func (h *Hub) setActiveTeam(team *TeamID) {
	if team != nil && h.state.team(*team) == nil {
		return
	}

	h.state.ActiveTeam = team
	h.state.ControllingTeam = team
	h.state.Phase = PhasePlay
	h.state.IsLocked = true

	h.broadcastState()
}

// addStrike records a wrong guess against the controlling team. The third
// strike flips the round into steal and hands the chance to the other team.
func (h *Hub) addStrike() {
	if h.state.ControllingTeam == nil {
		return
	}

	team := h.state.team(*h.state.ControllingTeam)
	if team == nil {
		return
	}
	team.Strikes++

	h.flashWrongX()
	h.pulseHighlight("strike", strikeHighlightDuration)
	h.broadcastSound(SoundStrike)

	if team.Strikes >= maxStrikes {
		h.state.Phase = PhaseSteal
		other := oppositeTeam(team.ID)
		h.state.ActiveTeam = &other
	}

	h.broadcastState()
}

func (h *Hub) awardPoints(teamID TeamID) {
	team := h.state.team(teamID)
	if team == nil {
		return
	}

	team.Score += h.state.RoundPoints

	if shouldShowConfetti(h.state.RoundPoints) {
		h.showConfetti(teamID, awardConfettiDuration)
	}

	h.broadcastState()
}

// judgeBuzzerAnswer resolves the first buzzer's attempt on a buzzer-type
// question. Correct pays out and ends the race; wrong deducts and pops the
// first entry so the next buzzer can be judged.
func (h *Hub) judgeBuzzerAnswer(correct bool) {
	question := h.state.currentQuestion()
	if question == nil || question.Type != QuestionBuzzer {
		return
	}
	if len(h.state.BuzzOrder) == 0 {
		return
	}

	first := h.state.BuzzOrder[0]
	team := h.state.team(first.Team)
	delta := buzzerPoints(correct, question.multiplier())

	if correct {
		team.Score += delta
		h.showConfetti(first.Team, buzzerConfettiDuration)
		h.broadcastSound(SoundCorrect)
		h.stopTimer()
	} else {
		team.Score = clampScore(team.Score + delta)
		h.state.BuzzOrder = h.state.BuzzOrder[1:]
		h.broadcastSound(SoundWrong)
	}

	h.broadcastState()
}

func (h *Hub) startTimer(seconds int) {
	if seconds <= 0 {
		return
	}

	endTime := time.Now().Add(time.Duration(seconds) * time.Second).UnixMilli()

	h.state.TimerDuration = seconds
	h.state.TimerEndTime = &endTime
	h.state.TimerRunning = true

	h.timerGen++
	gen := h.timerGen

	h.after(time.Duration(seconds)*time.Second, func() { h.expireTimer(gen) })

	h.broadcastState()
}

// expireTimer auto-stops the timer and sounds the horn, unless something
// stopped or restarted it in the meantime.
func (h *Hub) expireTimer(gen uint64) {
	if gen != h.timerGen || !h.state.TimerRunning {
		return
	}
	if h.state.TimerEndTime == nil || time.Now().UnixMilli() < *h.state.TimerEndTime {
		return
	}
	h.stopTimer()
	h.broadcastSound(SoundTimer)
	h.broadcastState()
}

// stopTimer clears the timer fields and invalidates any pending expiry
// check. It does not broadcast; callers decide.
func (h *Hub) stopTimer() {
	h.timerGen++
	h.state.TimerRunning = false
	h.state.TimerEndTime = nil
}

// flashWrongX raises the wrong-X flag and schedules its auto-hide. A newer
// mutation of the flag invalidates the pending clear.
func (h *Hub) flashWrongX() {
	h.state.ShowWrongX = true
	h.wrongXGen++
	gen := h.wrongXGen

	h.after(wrongXFlashDuration, func() { h.clearWrongX(gen) })
}

func (h *Hub) clearWrongX(gen uint64) {
	if gen != h.wrongXGen {
		return
	}
	h.state.ShowWrongX = false
	h.broadcastState()
}

func (h *Hub) pulseHighlight(rule string, d time.Duration) {
	h.state.HighlightDrinkingRule = &rule
	h.highlightGen++
	gen := h.highlightGen

	h.after(d, func() { h.clearHighlight(gen) })
}

func (h *Hub) clearHighlight(gen uint64) {
	if gen != h.highlightGen {
		return
	}
	h.state.HighlightDrinkingRule = nil
	h.broadcastState()
}

func (h *Hub) showConfetti(team TeamID, d time.Duration) {
	h.state.ShowConfetti = &team
	h.confettiGen++
	gen := h.confettiGen

	h.after(d, func() { h.clearConfetti(gen) })
}

func (h *Hub) clearConfetti(gen uint64) {
	if gen != h.confettiGen {
		return
	}
	h.state.ShowConfetti = nil
	h.broadcastState()
}

// loadContest swaps in a whole new GameState for a freshly loaded question
// set. Connected players carry over; team scores carry over unless the host
// asked for a reset. The old snapshot is contest-scoped and gets cleared.
// The requester is always told whether the load worked.
func (h *Hub) loadContest(c *Client, contestID string, resetScores bool) {
	questions, err := h.contests.load(contestID)
	if err != nil {
		log.Printf("ERROR: loading contest %q: %v", contestID, err)
		h.sendTo(c, ContestLoadedMessage{
			Type:    "admin:contestLoaded",
			Success: false,
			Error:   "Failed to load contest",
		})
		return
	}

	if err := h.snapshots.clear(); err != nil {
		log.Printf("ERROR: clearing snapshot: %v", err)
	}

	girlsScore := 0
	boysScore := 0
	if !resetScores {
		girlsScore = h.state.Teams.Girls.Score
		boysScore = h.state.Teams.Boys.Score
	}

	h.state = newGameState(questions)
	h.contestID = contestID
	h.state.Teams.Girls.Score = girlsScore
	h.state.Teams.Boys.Score = boysScore

	// Pending auto-clears belong to the replaced state.
	h.wrongXGen++
	h.highlightGen++
	h.confettiGen++
	h.timerGen++

	for _, id := range h.order {
		player, ok := h.players[id]
		if !ok {
			continue
		}
		team := h.state.team(player.Team)
		team.Players = append(team.Players, player)
	}

	h.broadcastState()
	h.broadcastPlayerList()

	h.sendTo(c, ContestLoadedMessage{
		Type:          "admin:contestLoaded",
		Success:       true,
		ContestID:     contestID,
		QuestionCount: len(questions),
	})

	logf(h.cfg, "GAME: Loaded contest %q with %d questions", contestID, len(questions))
}
