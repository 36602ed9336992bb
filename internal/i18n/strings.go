package i18n

import "fmt"

// Strings is the subset of interface text the server renders itself
type Strings struct {
	AppTitle          string `json:"appTitle"`
	Perfect           string `json:"perfect"`
	GreatJob          string `json:"greatJob"`
	KeepGoing         string `json:"keepGoing"`
	FeedbackCorrect   string `json:"feedbackCorrect"`
	FeedbackAlmost    string `json:"feedbackAlmost"`
	ErrorLoadingWords string `json:"errorLoadingWords"`
	NoWordsFound      string `json:"noWordsFound"`
	Retry             string `json:"retry"`

	correctAnswerWas string
	wordListStats    string
}

// CorrectAnswerWas formats the reveal shown after a wrong answer
func (s Strings) CorrectAnswerWas(word string) string {
	return fmt.Sprintf(s.correctAnswerWas, word)
}

// WordListStats formats the word list header counts
func (s Strings) WordListStats(total, mastered int) string {
	return fmt.Sprintf(s.wordListStats, total, mastered)
}

var frenchStrings = Strings{
	AppTitle:          "Dictée Magique",
	Perfect:           "Parfait !",
	GreatJob:          "Super travail !",
	KeepGoing:         "Continue comme ça !",
	FeedbackCorrect:   "Bravo !",
	FeedbackAlmost:    "Presque !",
	ErrorLoadingWords: "Impossible de charger les mots",
	NoWordsFound:      "Aucun mot trouvé",
	Retry:             "Réessayer",
	correctAnswerWas:  "La bonne réponse était : %s",
	wordListStats:     "%d mots, %d maîtrisés",
}

var englishStrings = Strings{
	AppTitle:          "Magic Spelling",
	Perfect:           "Perfect!",
	GreatJob:          "Great job!",
	KeepGoing:         "Keep going!",
	FeedbackCorrect:   "Well done!",
	FeedbackAlmost:    "Almost!",
	ErrorLoadingWords: "Could not load the words",
	NoWordsFound:      "No words found",
	Retry:             "Try again",
	correctAnswerWas:  "The correct answer was: %s",
	wordListStats:     "%d words, %d mastered",
}
