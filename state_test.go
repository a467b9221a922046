package main

import "testing"

func multipleQuestion(multiplier int) *Question {
	return &Question{
		ID:              1,
		Type:            QuestionMultiple,
		Question:        "Name something loud.",
		PointMultiplier: multiplier,
		Answers: []*Answer{
			{ID: 0, Text: "Thunder", Points: 30},
			{ID: 1, Text: "Concert", Points: 20},
			{ID: 2, Text: "Baby", Points: 10},
		},
	}
}

func TestCalculateRoundPoints(t *testing.T) {
	tests := []struct {
		name       string
		multiplier int
		revealed   []int
		want       int
	}{
		{"none revealed", 0, nil, 0},
		{"all revealed no multiplier", 0, []int{0, 1, 2}, 60},
		{"partial", 0, []int{1}, 20},
		{"double points", 2, []int{0, 2}, 80},
		{"triple points", 3, []int{0, 1, 2}, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := multipleQuestion(tt.multiplier)
			for _, id := range tt.revealed {
				q.findAnswer(id).Revealed = true
			}
			if got := calculateRoundPoints(q); got != tt.want {
				t.Errorf("calculateRoundPoints() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuzzerPoints(t *testing.T) {
	tests := []struct {
		correct    bool
		multiplier int
		want       int
	}{
		{true, 1, 30},
		{true, 2, 60},
		{false, 1, -10},
		{false, 3, -30},
	}

	for _, tt := range tests {
		if got := buzzerPoints(tt.correct, tt.multiplier); got != tt.want {
			t.Errorf("buzzerPoints(%v, %d) = %d, want %d", tt.correct, tt.multiplier, got, tt.want)
		}
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{10, 10},
		{0, 0},
		{-5, 0},
	}

	for _, tt := range tests {
		if got := clampScore(tt.score); got != tt.want {
			t.Errorf("clampScore(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestOppositeTeam(t *testing.T) {
	if got := oppositeTeam(TeamGirls); got != TeamBoys {
		t.Errorf("oppositeTeam(girls) = %s", got)
	}
	if got := oppositeTeam(TeamBoys); got != TeamGirls {
		t.Errorf("oppositeTeam(boys) = %s", got)
	}
}

func TestIsTopAnswer(t *testing.T) {
	q := multipleQuestion(0)

	if !q.isTopAnswer(0) {
		t.Error("answer id 0 should be the top answer")
	}
	if q.isTopAnswer(2) {
		t.Error("answer id 2 should not be the top answer")
	}

	// When ids don't start at zero, the first answer in the list wins.
	q.Answers = []*Answer{
		{ID: 7, Text: "First", Points: 40},
		{ID: 8, Text: "Second", Points: 10},
	}
	if !q.isTopAnswer(7) {
		t.Error("first listed answer should be the top answer")
	}
}

func TestCanNavigateTo(t *testing.T) {
	s := newGameState([]*Question{multipleQuestion(0), multipleQuestion(0)})

	tests := []struct {
		index int
		want  bool
	}{
		{-1, false},
		{0, true},
		{1, true},
		{2, false},
	}

	for _, tt := range tests {
		if got := s.canNavigateTo(tt.index); got != tt.want {
			t.Errorf("canNavigateTo(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestResetRoundClearsPerQuestionState(t *testing.T) {
	s := newGameState([]*Question{multipleQuestion(0)})

	girls := TeamGirls
	s.BuzzOrder = []BuzzEvent{{PlayerID: "p1", Timestamp: 1}}
	s.IsLocked = false
	s.RoundPoints = 40
	s.Teams.Girls.Strikes = 2
	s.Teams.Boys.RoundPoints = 15
	s.ActiveTeam = &girls
	s.ControllingTeam = &girls
	s.QuestionVisible = true
	s.Questions[0].Answers[0].Revealed = true

	s.resetRound()

	if len(s.BuzzOrder) != 0 {
		t.Error("buzz order should be empty")
	}
	if !s.IsLocked {
		t.Error("buzzers should be locked")
	}
	if s.RoundPoints != 0 || s.Teams.Girls.Strikes != 0 || s.Teams.Boys.RoundPoints != 0 {
		t.Error("round bookkeeping should be zeroed")
	}
	if s.ActiveTeam != nil || s.ControllingTeam != nil {
		t.Error("team control should be cleared")
	}
	if s.QuestionVisible {
		t.Error("question should be hidden")
	}
	if s.Questions[0].Answers[0].Revealed {
		t.Error("answers should be re-hidden")
	}
}

func TestResetRoundKeepsScores(t *testing.T) {
	s := newGameState([]*Question{multipleQuestion(0)})
	s.Teams.Girls.Score = 120
	s.Teams.Boys.Score = 80

	s.resetRound()

	if s.Teams.Girls.Score != 120 || s.Teams.Boys.Score != 80 {
		t.Error("team scores must survive a round reset")
	}
}
