package main

import "testing"

func buzzReadyState(t *testing.T) *GameState {
	t.Helper()
	s := newGameState([]*Question{multipleQuestion(0)})
	s.IsLocked = false
	return s
}

func TestResolveBuzzOrdersByTimestampNotArrival(t *testing.T) {
	s := buzzReadyState(t)

	// Network jitter: the later press arrives first.
	slow := &Player{ID: "slow", Name: "Slow", Team: TeamGirls}
	fast := &Player{ID: "fast", Name: "Fast", Team: TeamBoys}

	if pos, reason := resolveBuzz(s, slow, 100); reason != "" || pos != 1 {
		t.Fatalf("first arrival: got (%d, %q)", pos, reason)
	}
	if pos, reason := resolveBuzz(s, fast, 50); reason != "" || pos != 1 {
		t.Fatalf("earlier timestamp should take position 1: got (%d, %q)", pos, reason)
	}

	if s.BuzzOrder[0].PlayerID != "fast" || s.BuzzOrder[1].PlayerID != "slow" {
		t.Errorf("buzz order = [%s, %s], want [fast, slow]", s.BuzzOrder[0].PlayerID, s.BuzzOrder[1].PlayerID)
	}
}

func TestResolveBuzzPositionFormula(t *testing.T) {
	s := buzzReadyState(t)

	// Position must equal 1 + count of entries with a strictly smaller
	// timestamp, whatever the arrival order.
	stamps := []float64{40, 10, 30, 20, 50}
	for i, ts := range stamps {
		p := &Player{ID: string(rune('a' + i)), Name: "P", Team: TeamGirls}
		pos, reason := resolveBuzz(s, p, ts)
		if reason != "" {
			t.Fatalf("unexpected rejection: %q", reason)
		}

		smaller := 0
		for _, other := range stamps[:i+1] {
			if other < ts {
				smaller++
			}
		}
		if pos != smaller+1 {
			t.Errorf("timestamp %v: position = %d, want %d", ts, pos, smaller+1)
		}
	}

	for i := 1; i < len(s.BuzzOrder); i++ {
		if s.BuzzOrder[i-1].Timestamp > s.BuzzOrder[i].Timestamp {
			t.Fatal("buzz order is not sorted ascending by timestamp")
		}
	}
}

func TestResolveBuzzRejections(t *testing.T) {
	player := &Player{ID: "p1", Name: "Pat", Team: TeamGirls}

	t.Run("not registered", func(t *testing.T) {
		s := buzzReadyState(t)
		if _, reason := resolveBuzz(s, nil, 1); reason != rejectNotRegistered {
			t.Errorf("reason = %q, want %q", reason, rejectNotRegistered)
		}
		if len(s.BuzzOrder) != 0 {
			t.Error("rejected buzz must not touch the buzz order")
		}
	})

	t.Run("locked", func(t *testing.T) {
		s := buzzReadyState(t)
		s.IsLocked = true
		if _, reason := resolveBuzz(s, player, 1); reason != rejectLocked {
			t.Errorf("reason = %q, want %q", reason, rejectLocked)
		}
	})

	t.Run("already buzzed", func(t *testing.T) {
		s := buzzReadyState(t)
		if _, reason := resolveBuzz(s, player, 1); reason != "" {
			t.Fatalf("first buzz rejected: %q", reason)
		}
		if _, reason := resolveBuzz(s, player, 2); reason != rejectAlreadyBuzzed {
			t.Errorf("reason = %q, want %q", reason, rejectAlreadyBuzzed)
		}
		if len(s.BuzzOrder) != 1 {
			t.Errorf("buzz order length = %d, want 1", len(s.BuzzOrder))
		}
	})
}

func TestBuzzPosition(t *testing.T) {
	order := []BuzzEvent{
		{PlayerID: "a", Timestamp: 1},
		{PlayerID: "b", Timestamp: 2},
	}

	if got := buzzPosition(order, "b"); got != 2 {
		t.Errorf("buzzPosition(b) = %d, want 2", got)
	}
	if got := buzzPosition(order, "missing"); got != -1 {
		t.Errorf("buzzPosition(missing) = %d, want -1", got)
	}
}
