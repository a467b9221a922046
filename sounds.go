package main

// SoundType identifies a sound cue for clients to play. The server only ever
// broadcasts the identifier; playback is the client's problem.
type SoundType string

const (
	SoundBuzzer   SoundType = "buzzer"
	SoundCorrect  SoundType = "correct"
	SoundWrong    SoundType = "wrong"
	SoundReveal   SoundType = "reveal"
	SoundApplause SoundType = "applause"
	SoundTimer    SoundType = "timer"
	SoundDing     SoundType = "ding"
	SoundStrike   SoundType = "strike"
)
