// Package scoring computes points for title guesses and trivia answers.
package scoring

import "time"

const (
	GuessBase         = 1000
	MaxTimeBonus      = 500
	TimeBonusPerSec   = 10
	HintPenalty       = 50
	MinCorrectScore   = 100
	TriviaCorrectGain = 200
)

// GuessScore rewards a correct guess. The time bonus decays by 10 points per
// whole elapsed second and each hint costs 50; a correct guess never scores
// below 100. Untimed rounds earn no time bonus, while a timed round answered
// at zero elapsed earns the full bonus.
func GuessScore(correct bool, elapsed time.Duration, timed bool, hintsUsed int) int {
	if !correct {
		return 0
	}
	bonus := 0
	if timed {
		bonus = timeBonus(elapsed)
	}
	return max(MinCorrectScore, GuessBase+bonus-hintsUsed*HintPenalty)
}

func timeBonus(elapsed time.Duration) int {
	seconds := int(max(elapsed, 0) / time.Second)
	return max(0, MaxTimeBonus-seconds*TimeBonusPerSec)
}

// TriviaScore returns the points added for a multiple-choice answer.
// Options are controlled strings, so comparison is exact.
func TriviaScore(selected, correct string) int {
	if selected == correct {
		return TriviaCorrectGain
	}
	return 0
}
