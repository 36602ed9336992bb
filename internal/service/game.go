package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"dictee/internal/i18n"
	"dictee/internal/logger"
	"dictee/internal/models"
)

var (
	// ErrEmptyCatalog means no session can start because there are no words
	ErrEmptyCatalog = errors.New("no words available for a session")
	// ErrEmptyAnswer is returned for a blank typed answer, which is ignored
	ErrEmptyAnswer = errors.New("empty answer")
	// ErrAlreadyAnswered is returned when the current word awaits completion
	ErrAlreadyAnswered = errors.New("word already answered")
	// ErrNoPendingAnswer is returned by Continue when nothing was answered
	ErrNoPendingAnswer = errors.New("no answer awaiting completion")
)

const (
	DefaultSessionSize = 10
	completionTimeout  = 5 * time.Second
)

// DefaultFeedbackDelays is how long each mode shows its verdict before
// moving on
var DefaultFeedbackDelays = map[models.GameMode]time.Duration{
	models.ModeAudioMatch:     1500 * time.Millisecond,
	models.ModeLettresPerdues: 1500 * time.Millisecond,
	models.ModeDicteeFantome:  2000 * time.Millisecond,
	models.ModeExploration:    0,
}

// Timer is the handle of a scheduled completion
type Timer interface {
	Stop() bool
}

// Challenge is what the learner sees for the current word. Only the fields
// relevant to the session's mode are set.
type Challenge struct {
	WordID      string          `json:"wordId"`
	Mode        models.GameMode `json:"mode"`
	Index       int             `json:"index"`
	Total       int             `json:"total"`
	Text        string          `json:"text,omitempty"`
	Sentence    string          `json:"sentence,omitempty"`
	Image       string          `json:"image,omitempty"`
	Options     []string        `json:"options,omitempty"`
	DisplayWord string          `json:"displayWord,omitempty"`
	Blanks      int             `json:"blanks,omitempty"`
	LetterBank  []string        `json:"letterBank,omitempty"`
	AccentKeys  []string        `json:"accentKeys,omitempty"`
	HasAudio    bool            `json:"hasAudio"`
	HasSentence bool            `json:"hasSentence"`

	puzzle models.MissingLetterPuzzle
}

// Submission is a learner's answer; the field used depends on the mode
type Submission struct {
	WordID  string   `json:"wordId"`
	Choice  string   `json:"choice,omitempty"`
	Text    string   `json:"text,omitempty"`
	Letters []string `json:"letters,omitempty"`
}

// Verdict is the judged answer
type Verdict struct {
	WordID        string        `json:"wordId"`
	Correct       bool          `json:"correct"`
	CorrectAnswer string        `json:"correctAnswer"`
	Feedback      string        `json:"feedback"`
	Delay         time.Duration `json:"-"`
	DelayMs       int64         `json:"delayMs"`
}

// Snapshot is a read-only view of a game
type Snapshot struct {
	State     State           `json:"state"`
	Mode      models.GameMode `json:"mode,omitempty"`
	Period    string          `json:"period,omitempty"`
	Locale    i18n.Locale     `json:"locale"`
	Stars     int             `json:"stars"`
	Index     int             `json:"index"`
	Total     int             `json:"total"`
	Challenge *Challenge      `json:"challenge,omitempty"`
	Pending   *Verdict        `json:"pending,omitempty"`
	Summary   *Summary        `json:"summary,omitempty"`
}

// GameOptions configures a Game
type GameOptions struct {
	Mastery     *MasteryEngine
	Selector    *Selector
	Puzzles     *PuzzleGenerator
	Random      RandomSource
	SessionSize int
	Locale      i18n.Locale
	Delays      map[models.GameMode]time.Duration
	AfterFunc   func(time.Duration, func()) Timer
	Logger      *logger.Logger
}

// Game is one learner's state machine. It is safe for concurrent use.
type Game struct {
	mu sync.Mutex

	state      State
	session    *models.Session
	period     models.Period
	locale     i18n.Locale
	challenge  *Challenge
	pending    *Verdict
	generation uint64
	timer      Timer

	mastery     *MasteryEngine
	selector    *Selector
	puzzles     *PuzzleGenerator
	rng         RandomSource
	sessionSize int
	delays      map[models.GameMode]time.Duration
	afterFunc   func(time.Duration, func()) Timer
	log         *logger.Logger
}

// NewGame creates a game sitting at the menu
func NewGame(opts GameOptions) *Game {
	g := &Game{
		state:       StateMenu,
		locale:      opts.Locale,
		mastery:     opts.Mastery,
		selector:    opts.Selector,
		puzzles:     opts.Puzzles,
		rng:         opts.Random,
		sessionSize: opts.SessionSize,
		delays:      opts.Delays,
		afterFunc:   opts.AfterFunc,
		log:         opts.Logger,
	}
	if g.sessionSize <= 0 {
		g.sessionSize = DefaultSessionSize
	}
	if g.delays == nil {
		g.delays = DefaultFeedbackDelays
	}
	if g.afterFunc == nil {
		g.afterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	if g.rng == nil {
		g.rng = NewRandomSource(0)
	}
	if g.puzzles == nil {
		g.puzzles = NewPuzzleGenerator(g.rng)
	}
	if g.log == nil {
		g.log = logger.NewNop()
	}
	if !g.locale.Supported() {
		g.locale = i18n.DefaultLocale
	}
	return g
}

// Start begins a session in mode over words selected from catalog
func (g *Game) Start(ctx context.Context, mode models.GameMode, period models.Period, catalog []models.Word) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown game mode %q", mode)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	next, err := Transition(g.state, EventStartGame)
	if err != nil {
		return err
	}

	words, err := g.selector.SelectPracticeWords(ctx, catalog, g.sessionSize)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return ErrEmptyCatalog
	}

	session := NewSession(mode, words)
	g.invalidate()
	g.session = &session
	g.period = period
	if period.Language != "" {
		g.locale = i18n.ParseLocale(period.Language)
	}
	g.state = next
	g.buildChallenge()

	g.log.Info("session started", "mode", mode, "period", period.ID, "words", len(words))
	return nil
}

// Answer judges a submission for the current word and schedules completion
// after the mode's feedback delay
func (g *Game) Answer(ctx context.Context, sub Submission) (Verdict, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateInSession {
		return Verdict{}, fmt.Errorf("%w: answer in state %s", ErrInvalidTransition, g.state)
	}
	word, ok := g.session.CurrentWord()
	if !ok || sub.WordID != word.ID {
		return Verdict{}, ErrStaleAnswer
	}
	if g.pending != nil {
		return Verdict{}, ErrAlreadyAnswered
	}

	correct, err := g.judge(word, sub)
	if err != nil {
		return Verdict{}, err
	}

	strs := g.locale.Strings()
	verdict := Verdict{
		WordID:        word.ID,
		Correct:       correct,
		CorrectAnswer: word.Text,
		Feedback:      strs.FeedbackCorrect,
		Delay:         g.delays[g.session.Mode],
	}
	verdict.DelayMs = verdict.Delay.Milliseconds()
	if !correct {
		verdict.Feedback = strs.CorrectAnswerWas(word.Text)
	}
	g.pending = &verdict

	if verdict.Delay <= 0 {
		g.complete(ctx)
		return verdict, nil
	}

	gen := g.generation
	g.timer = g.afterFunc(verdict.Delay, func() { g.completeIfCurrent(gen) })
	return verdict, nil
}

func (g *Game) judge(word models.Word, sub Submission) (bool, error) {
	switch g.session.Mode {
	case models.ModeAudioMatch:
		return sub.Choice == word.Text, nil
	case models.ModeDicteeFantome:
		if strings.TrimSpace(sub.Text) == "" {
			return false, ErrEmptyAnswer
		}
		return Compare(sub.Text, word.Text), nil
	case models.ModeLettresPerdues:
		filled, err := FillPuzzle(g.challenge.puzzle, sub.Letters)
		if err != nil {
			return false, err
		}
		if err := CheckLetterBank(g.challenge.LetterBank, sub.Letters); err != nil {
			return false, err
		}
		return Compare(filled, word.Text), nil
	case models.ModeExploration:
		return true, nil
	}
	return false, fmt.Errorf("unknown game mode %q", g.session.Mode)
}

// Continue completes the answered word without waiting for the delay
func (g *Game) Continue(ctx context.Context, wordID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateInSession {
		return fmt.Errorf("%w: continue in state %s", ErrInvalidTransition, g.state)
	}
	if g.pending == nil {
		return ErrNoPendingAnswer
	}
	if g.pending.WordID != wordID {
		return ErrStaleAnswer
	}
	g.complete(ctx)
	return nil
}

func (g *Game) completeIfCurrent(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.generation || g.pending == nil || g.state != StateInSession {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()
	g.complete(ctx)
}

// complete records mastery for the pending verdict and advances the
// session. Callers hold g.mu.
func (g *Game) complete(ctx context.Context) {
	verdict := g.pending
	word, ok := g.session.CurrentWord()
	if verdict == nil || !ok || word.ID != verdict.WordID {
		return
	}

	if g.session.Mode != models.ModeExploration && g.mastery != nil {
		if _, err := g.mastery.RecordAttempt(ctx, word.ID, verdict.Correct); err != nil {
			g.log.Error("failed to record attempt", "word", word.ID, "error", err)
		}
	}

	next, err := Advance(*g.session, word, verdict.Correct)
	if err != nil {
		g.log.Error("failed to advance session", "word", word.ID, "error", err)
		return
	}

	event := EventWordAnswered
	if next.Completed {
		event = EventSessionEnd
	}
	state, err := Transition(g.state, event)
	if err != nil {
		g.log.Error("failed to advance session", "word", word.ID, "error", err)
		return
	}

	g.invalidate()
	g.session = &next
	g.state = state
	g.buildChallenge()

	if next.Completed {
		g.log.Info("session complete", "mode", next.Mode, "stars", next.Stars, "total", len(next.Words))
	}
}

// ReturnToMenu abandons any session; pending completions are dropped
func (g *Game) ReturnToMenu() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state, _ = Transition(g.state, EventReturnToMenu)
	g.invalidate()
	g.session = nil
	g.challenge = nil
}

// BrowseCatalog opens the word list view
func (g *Game) BrowseCatalog() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, err := Transition(g.state, EventOpenCatalog)
	if err != nil {
		return err
	}
	g.state = next
	return nil
}

// Snapshot returns the current view of the game
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := Snapshot{State: g.state, Locale: g.locale, Period: g.period.ID}
	if g.session == nil {
		return snap
	}
	snap.Mode = g.session.Mode
	snap.Stars = g.session.Stars
	snap.Index = g.session.CurrentIndex
	snap.Total = len(g.session.Words)
	if g.challenge != nil {
		c := *g.challenge
		snap.Challenge = &c
	}
	if g.pending != nil {
		v := *g.pending
		snap.Pending = &v
	}
	if g.session.Completed {
		sum := Summarize(*g.session, g.locale)
		snap.Summary = &sum
	}
	return snap
}

// Progress returns the learner's stored progress
func (g *Game) Progress(ctx context.Context) (models.ProgressMap, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mastery.Progress(ctx)
}

// ResetProgress wipes the learner's stored progress. It waits for any
// completion in flight so the cleared blob cannot be written back.
func (g *Game) ResetProgress(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mastery.Reset(ctx)
}

// invalidate drops any pending completion. Callers hold g.mu.
func (g *Game) invalidate() {
	g.generation++
	g.pending = nil
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

// buildChallenge prepares the view of the current word. Callers hold g.mu.
func (g *Game) buildChallenge() {
	word, ok := g.session.CurrentWord()
	if !ok {
		g.challenge = nil
		return
	}

	c := &Challenge{
		WordID:      word.ID,
		Mode:        g.session.Mode,
		Index:       g.session.CurrentIndex,
		Total:       len(g.session.Words),
		HasAudio:    word.AudioWord != "",
		HasSentence: word.Sentence != "",
	}

	switch g.session.Mode {
	case models.ModeAudioMatch:
		c.Options = AudioMatchOptions(word, g.session.Words, g.rng)
	case models.ModeLettresPerdues:
		c.puzzle = g.puzzles.Generate(word.Text, BlankCount(word.Text), g.locale)
		c.DisplayWord = c.puzzle.DisplayWord
		c.Blanks = len(c.puzzle.MissingIndices)
		c.LetterBank = g.puzzles.LetterBank(c.puzzle, g.locale)
		c.Image = word.Image
	case models.ModeDicteeFantome:
		c.AccentKeys = g.locale.AccentCharacters()
	case models.ModeExploration:
		c.Text = word.Text
		c.Sentence = word.Sentence
		c.Image = word.Image
	}
	g.challenge = c
}
