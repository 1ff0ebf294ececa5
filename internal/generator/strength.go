package generator

import "strings"

// Strength summarizes a password's estimated resistance to guessing.
// The score is a 0-100 heuristic, not an entropy measurement.
type Strength struct {
	Score       int
	Label       string
	Feedback    []string
	HasLower    bool
	HasUpper    bool
	HasDigit    bool
	HasSymbol   bool
	Length      int
	UniqueChars int
}

// EvaluateStrength scores a password by length, character class coverage
// and repetition.
func EvaluateStrength(password string) Strength {
	s := Strength{Length: len(password)}
	if password == "" {
		s.Label = "very weak"
		s.Feedback = []string{"password is empty"}
		return s
	}

	switch {
	case len(password) >= 12:
		s.Score += 25
	case len(password) >= 8:
		s.Score += 15
		s.Feedback = append(s.Feedback, "consider a length of at least 12")
	default:
		s.Score += 5
		s.Feedback = append(s.Feedback, "password is too short, use at least 8 characters")
	}

	s.HasLower = strings.ContainsAny(password, lowercase)
	s.HasUpper = strings.ContainsAny(password, uppercase)
	s.HasDigit = strings.ContainsAny(password, digits)
	s.HasSymbol = strings.ContainsAny(password, DefaultSymbols)

	classes := 0
	for _, has := range []bool{s.HasLower, s.HasUpper, s.HasDigit, s.HasSymbol} {
		if has {
			classes++
		}
	}
	s.Score += classes * 15
	if classes < 3 {
		s.Feedback = append(s.Feedback, "use at least 3 character classes (case, digits, symbols)")
	}

	unique := make(map[rune]bool, len(password))
	for _, ch := range password {
		unique[ch] = true
	}
	s.UniqueChars = len(unique)
	if float64(s.UniqueChars)/float64(len(password)) < 0.7 {
		s.Score -= 10
		s.Feedback = append(s.Feedback, "too many repeated characters")
	}

	if s.Score > 100 {
		s.Score = 100
	}
	switch {
	case s.Score >= 80:
		s.Label = "strong"
	case s.Score >= 60:
		s.Label = "medium"
	case s.Score >= 40:
		s.Label = "weak"
	default:
		s.Label = "very weak"
	}
	return s
}
