package game

// guessScores maps the winning guess number (1..5) to points.
var guessScores = [MaxGuesses]int{100, 80, 60, 40, 20}

// ScoreForGuess returns the points for winning on the given guess
// number. Anything outside 1..5 scores 0, including lost games.
func ScoreForGuess(guessNumber int) int {
	if guessNumber < 1 || guessNumber > len(guessScores) {
		return 0
	}
	return guessScores[guessNumber-1]
}
