package wordle

import "fmt"

// Feedback returns the pattern a game would show for guess when the answer is answer.
//
// Exact matches are marked first.  The remaining guess letters are then marked Present left to
// right while unmatched copies of the letter remain in the answer, so with repeated letters the
// leftmost surplus occurrences are the ones reported Present.
func Feedback(guess, answer Word) (Pattern, error) {
	if err := checkPair(guess, answer); err != nil {
		return nil, err
	}
	ret := make(Pattern, len(guess))
	var remaining [Alphabet]uint8
	for i := 0; i < len(guess); i++ {
		if guess[i] == answer[i] {
			ret[i] = Correct
		} else {
			remaining[answer[i]-'a']++
		}
	}
	for i := 0; i < len(guess); i++ {
		if ret[i] == Correct {
			continue
		}
		letter := guess[i] - 'a'
		if remaining[letter] > 0 {
			ret[i] = Present
			remaining[letter]--
		} else {
			ret[i] = Absent
		}
	}
	return ret, nil
}

// MustFeedback is Feedback for words already known to be valid and of equal length.
func MustFeedback(guess, answer Word) Pattern {
	ret, err := Feedback(guess, answer)
	if err != nil {
		panic(err)
	}
	return ret
}

// FeedbackCode is Feedback(guess, answer).Code() without allocating.  The words are trusted:
// both valid, of equal length and no longer than MaxCodeLength.
func FeedbackCode(guess, answer Word) uint32 {
	const correct = 0xff
	var remaining [Alphabet]uint8
	var marks [MaxCodeLength]uint8
	n := len(guess)
	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			marks[i] = correct
		} else {
			remaining[answer[i]-'a']++
		}
	}
	ret := uint32(0)
	for i := 0; i < n; i++ {
		ret *= 3
		if marks[i] == correct {
			ret += uint32(Correct)
			continue
		}
		letter := guess[i] - 'a'
		if remaining[letter] > 0 {
			remaining[letter]--
			ret += uint32(Present)
		}
	}
	return ret
}

func checkPair(guess, answer Word) error {
	if err := guess.Validate(); err != nil {
		return fmt.Errorf("guess: %w", err)
	}
	if err := answer.Validate(); err != nil {
		return fmt.Errorf("answer: %w", err)
	}
	if len(guess) != len(answer) {
		return fmt.Errorf("%w: guess %q has %d letters, answer %q has %d", ErrInvalidInput, guess, len(guess), answer, len(answer))
	}
	if len(guess) > MaxCodeLength {
		return fmt.Errorf("%w: words longer than %d letters are not supported", ErrInvalidInput, MaxCodeLength)
	}
	return nil
}
