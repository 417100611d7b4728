package game

// pixelationLevels is the canonical reveal curve: the intensity used
// before the first guess down to the intensity before the last one.
// Strictly decreasing so every guess reveals at least as much detail.
var pixelationLevels = [MaxGuesses]int{50, 35, 25, 18, 12}

// PixelationLevel maps a guess index to an obfuscation intensity in
// [0,100]. Out-of-range indices clamp to the nearest table entry.
func PixelationLevel(guessNumber int) int {
	if guessNumber < 0 {
		guessNumber = 0
	}
	if guessNumber >= len(pixelationLevels) {
		guessNumber = len(pixelationLevels) - 1
	}
	return pixelationLevels[guessNumber]
}

// LevelForState returns the intensity for the record's current guess
// count, overriding to 0 (fully revealed) once the game is complete.
func LevelForState(s State) int {
	if s.IsComplete {
		return 0
	}
	return PixelationLevel(s.CurrentGuess)
}
