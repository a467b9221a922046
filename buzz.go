package main

import "sort"

// Buzz rejection reasons, sent verbatim to the buzzing client.
const (
	rejectNotRegistered = "Not registered"
	rejectLocked        = "Buzzers are locked"
	rejectAlreadyBuzzed = "Already buzzed"
)

// hasPlayerBuzzed reports whether the player already holds a slot in the
// current round's buzz order.
func hasPlayerBuzzed(buzzOrder []BuzzEvent, playerID string) bool {
	for _, b := range buzzOrder {
		if b.PlayerID == playerID {
			return true
		}
	}
	return false
}

// buzzPosition returns the player's 1-indexed rank in the buzz order, or -1
// if the player has not buzzed.
func buzzPosition(buzzOrder []BuzzEvent, playerID string) int {
	for i, b := range buzzOrder {
		if b.PlayerID == playerID {
			return i + 1
		}
	}
	return -1
}

// resolveBuzz validates and records one buzz attempt. Ordering is by the
// server-stamped monotonic timestamp, not network arrival: two physically
// simultaneous presses race on receipt time, and a slightly delayed packet
// carrying an earlier stamp still wins its slot. The sort is stable, so a
// timestamp tie falls back to arrival order at the resolver.
//
// On success it returns the player's 1-indexed position and an empty reason;
// on rejection the state is untouched and the reason names the cause.
func resolveBuzz(s *GameState, player *Player, timestamp float64) (int, string) {
	if player == nil {
		return 0, rejectNotRegistered
	}
	if s.IsLocked {
		return 0, rejectLocked
	}
	if hasPlayerBuzzed(s.BuzzOrder, player.ID) {
		return 0, rejectAlreadyBuzzed
	}

	s.BuzzOrder = append(s.BuzzOrder, BuzzEvent{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Team:       player.Team,
		Timestamp:  timestamp,
	})

	sort.SliceStable(s.BuzzOrder, func(i, j int) bool {
		return s.BuzzOrder[i].Timestamp < s.BuzzOrder[j].Timestamp
	})

	return buzzPosition(s.BuzzOrder, player.ID), ""
}
