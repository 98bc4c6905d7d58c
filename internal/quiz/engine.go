package quiz

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
)

// Start rejections shown to the user. None of them mutate any state.
var (
	ErrQuizNotStarted = errors.New("quiz window has not opened yet")
	ErrQuizEnded      = errors.New("quiz window is already closed")
	ErrAlreadyTaken   = errors.New("user already has a completed attempt")
	ErrBankEmpty      = errors.New("question bank is empty")
)

// EventKind enumerates the inbound events the state machine understands.
// Decoding from transport tokens happens once, at the delivery boundary.
type EventKind int

const (
	EventConsentYes EventKind = iota
	EventConsentNo
	EventToggle
	EventSubmit
	EventExit
	EventText
)

// Event is one inbound user event.
type Event struct {
	Kind  EventKind
	Index int    // option index for EventToggle
	Text  string // message text for EventText
}

// Outcome is the cause of a session's termination.
type Outcome int

const (
	OutcomeCompleted Outcome = iota // all questions answered
	OutcomeTimeout                  // deadline elapsed
	OutcomeExit                     // user left the quiz
)

// QuestionView is everything the presenter needs to render one question.
type QuestionView struct {
	Number    int // 1-based
	Total     int
	Text      string
	Image     string
	Kind      entities.AnswerKind
	Options   []string
	Selection entities.Selection
}

// Summary accompanies a termination message.
type Summary struct {
	Score      int
	Total      int
	Percentage string
	TimeSpent  time.Duration
}

// Presenter delivers outbound effects. Implementations log and swallow
// transport failures; the engine never blocks a transition on delivery.
type Presenter interface {
	// AskNicknameConsent asks whether the user has a forum nickname.
	AskNicknameConsent(ctx context.Context, userID int64)
	// AskNickname prompts for the nickname text.
	AskNickname(ctx context.Context, userID int64)
	// AnnounceStart tells the user the quiz began and how much time they have.
	AnnounceStart(ctx context.Context, userID int64, limit time.Duration)
	// ShowQuestion renders a question and returns the interactive message id.
	ShowQuestion(ctx context.Context, userID int64, view QuestionView) (int, error)
	// RefreshSelection re-renders the options keyboard in place and returns
	// the message id that now carries it (a fresh one if the edit failed).
	RefreshSelection(ctx context.Context, userID int64, messageID int, view QuestionView) int
	// PromptSelection asks the user to select before submitting.
	PromptSelection(ctx context.Context, userID int64, kind entities.AnswerKind)
	// AnswerFeedback reports correctness; correct rendering shown when wrong.
	AnswerFeedback(ctx context.Context, userID int64, correct bool, correctRendering string)
	// StripControls removes the keyboard from a message. Best-effort.
	StripControls(ctx context.Context, userID int64, messageID int)
	// AnnounceTermination sends the cause-specific final message.
	AnnounceTermination(ctx context.Context, userID int64, outcome Outcome, sum Summary)
	// ReturnToMenu brings the user back to the top-level menu.
	ReturnToMenu(ctx context.Context, userID int64)
}

// BankLoader loads the validated question bank. A structurally invalid bank
// yields an error and the load collapses to empty (fail-closed).
type BankLoader interface {
	Load(ctx context.Context) ([]entities.Question, error)
}

// ResultStore persists completed attempts.
type ResultStore interface {
	Save(ctx context.Context, res *entities.QuizResult) error
	HasCompleted(ctx context.Context, userID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]*entities.QuizResult, error)
}

// Config is the engine's static quiz parameters.
type Config struct {
	WindowStart        time.Time
	WindowEnd          time.Time
	TimeLimit          time.Duration
	RandomizeQuestions bool
	RandomizeAnswers   bool
}

// Engine is the per-user quiz state machine. A single mutex serializes all
// transitions: the transport delivers updates serially, and the armed
// timeout callback is the only other entrant.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	registry  *Registry
	bank      BankLoader
	results   ResultStore
	presenter Presenter
	logger    *zap.Logger

	rng *rand.Rand
	now func() time.Time
	seq uint64
}

func NewEngine(
	cfg Config,
	registry *Registry,
	bank BankLoader,
	results ResultStore,
	presenter Presenter,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		cfg:       cfg,
		registry:  registry,
		bank:      bank,
		results:   results,
		presenter: presenter,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// Start handles a quiz start request. On success the user gets a fresh
// session in the consent phase; rejections return a sentinel error and
// leave no session behind.
func (e *Engine) Start(ctx context.Context, userID int64, username string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if now.Before(e.cfg.WindowStart) {
		return ErrQuizNotStarted
	}
	if now.After(e.cfg.WindowEnd) {
		return ErrQuizEnded
	}

	taken, err := e.results.HasCompleted(ctx, userID)
	if err != nil {
		// Fail open: an unreadable history must not lock users out.
		e.logger.Error("check completed attempt",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
	if taken {
		return ErrAlreadyTaken
	}

	bank, err := e.bank.Load(ctx)
	if err != nil {
		e.logger.Error("load question bank", zap.Error(err))
		return ErrBankEmpty
	}
	if len(bank) == 0 {
		return ErrBankEmpty
	}

	// A restart replaces any session the user still has; its timer must not
	// outlive it.
	if prev, ok := e.registry.Get(userID); ok {
		prev.StopTimer()
	}

	e.registry.Set(userID, &entities.Session{
		UserID:   userID,
		Username: username,
		Phase:    entities.PhaseAwaitingConsent,
		Bank:     bank,
	})

	e.presenter.AskNicknameConsent(ctx, userID)
	return nil
}

// HandleEvent feeds one inbound event into the user's session. It reports
// whether the event was consumed so the caller can fall through to other
// handling (menu navigation) when it was not.
func (e *Engine) HandleEvent(ctx context.Context, userID int64, ev Event) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.registry.Get(userID)
	if !ok {
		return false
	}

	switch s.Phase {
	case entities.PhaseAwaitingConsent:
		switch ev.Kind {
		case EventConsentYes:
			s.Phase = entities.PhaseAwaitingNickname
			e.presenter.AskNickname(ctx, userID)
			return true
		case EventConsentNo:
			e.begin(ctx, s, "")
			return true
		case EventExit:
			e.finish(ctx, s, OutcomeExit)
			return true
		default:
			return false
		}

	case entities.PhaseAwaitingNickname:
		// Leaving is honored here too, so the reserved exit phrase can
		// never be captured as a nickname.
		if ev.Kind == EventExit {
			e.finish(ctx, s, OutcomeExit)
			return true
		}
		if ev.Kind != EventText {
			return false
		}
		e.begin(ctx, s, strings.TrimSpace(ev.Text))
		return true

	case entities.PhaseInProgress:
		// Timeout takes priority over any lingering event, even if the
		// timer callback has not fired yet.
		if !e.now().Before(s.Deadline) {
			e.finish(ctx, s, OutcomeTimeout)
			return true
		}
		return e.handleInProgress(ctx, s, ev)

	default:
		return false
	}
}

// History returns the user's stored attempts.
func (e *Engine) History(ctx context.Context, userID int64) ([]*entities.QuizResult, error) {
	return e.results.ListByUser(ctx, userID)
}

// begin moves a session into the in-progress phase: sequence the bank,
// reset progress, record the start, arm the timeout, send the first
// question.
func (e *Engine) begin(ctx context.Context, s *entities.Session, nickname string) {
	s.Phase = entities.PhaseInProgress
	s.Nickname = nickname
	s.Questions = Sequence(s.Bank, e.cfg.RandomizeQuestions, e.rng)
	s.Current = 0
	s.Score = 0
	s.Answers = nil
	s.StartedAt = e.now()
	s.Deadline = s.StartedAt.Add(e.cfg.TimeLimit)

	e.seq++
	s.Seq = e.seq
	seq := s.Seq
	userID := s.UserID
	s.Timer = time.AfterFunc(e.cfg.TimeLimit, func() {
		e.expire(userID, seq)
	})

	e.presenter.AnnounceStart(ctx, userID, e.cfg.TimeLimit)
	e.sendQuestion(ctx, s)
}

// expire is the timer callback. It is a no-op unless the session it was
// armed for is still present and still in progress.
func (e *Engine) expire(userID int64, seq uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.registry.Get(userID)
	if !ok || s.Phase != entities.PhaseInProgress || s.Seq != seq {
		return
	}
	e.finish(context.Background(), s, OutcomeTimeout)
}

func (e *Engine) handleInProgress(ctx context.Context, s *entities.Session, ev Event) bool {
	if ev.Kind == EventExit {
		e.finish(ctx, s, OutcomeExit)
		return true
	}

	q := s.Questions[s.Current]

	switch ev.Kind {
	case EventToggle:
		// Toggles on a text question fall through unhandled.
		kind := q.Kind()
		if kind != entities.AnswerSingle && kind != entities.AnswerMultiple {
			return false
		}
		if ev.Index < 0 || ev.Index >= len(s.Prepared.Options) {
			return false
		}
		if kind == entities.AnswerSingle {
			s.Selection.ToggleSingle(ev.Index)
		} else {
			s.Selection.ToggleMultiple(ev.Index)
		}
		s.MessageID = e.presenter.RefreshSelection(ctx, s.UserID, s.MessageID, e.viewFor(s, q))
		return true

	case EventSubmit:
		kind := q.Kind()
		if kind != entities.AnswerSingle && kind != entities.AnswerMultiple {
			return false
		}
		if s.Selection.Empty() {
			e.presenter.PromptSelection(ctx, s.UserID, kind)
			return true
		}
		selected, correct := renderSelection(s.Prepared, s.Selection), renderCorrect(s.Prepared, kind)
		e.advance(ctx, s, q, selected, correct, EvaluateSelection(q, s.Prepared, s.Selection))
		return true

	case EventText:
		body, ok := q.Body.(entities.TextAnswer)
		if !ok {
			return false
		}
		e.advance(ctx, s, q, ev.Text, body.Correct, EvaluateText(q, ev.Text))
		return true

	default:
		return false
	}
}

// advance appends exactly one answer record, reports correctness, and moves
// to the next question or to natural completion.
func (e *Engine) advance(ctx context.Context, s *entities.Session, q entities.Question, selected, correct string, isCorrect bool) {
	s.Answers = append(s.Answers, entities.AnswerRecord{
		QuestionIndex: s.Current,
		Question:      q.Text,
		Selected:      selected,
		Correct:       correct,
		IsCorrect:     isCorrect,
		AnsweredAt:    e.now(),
	})
	if isCorrect {
		s.Score++
	}
	e.presenter.AnswerFeedback(ctx, s.UserID, isCorrect, correct)

	s.Current++
	if s.Current < len(s.Questions) {
		e.sendQuestion(ctx, s)
		return
	}
	e.finish(ctx, s, OutcomeCompleted)
}

func (e *Engine) sendQuestion(ctx context.Context, s *entities.Session) {
	q := s.Questions[s.Current]
	s.Prepared = PrepareAnswers(q, e.cfg.RandomizeAnswers, e.rng)
	s.Selection = entities.NewSelection(q.Kind())

	id, err := e.presenter.ShowQuestion(ctx, s.UserID, e.viewFor(s, q))
	if err != nil {
		e.logger.Error("show question",
			zap.Int64("user_id", s.UserID),
			zap.Int("question", s.Current),
			zap.Error(err),
		)
		return
	}
	s.MessageID = id
}

// finish terminates a session exactly once for the given cause: cancel the
// timeout, strip controls best-effort, persist the result on natural
// completion only, delete the session, announce, return to the menu.
func (e *Engine) finish(ctx context.Context, s *entities.Session, outcome Outcome) {
	s.StopTimer()

	if s.MessageID != 0 && (s.Current >= len(s.Questions) || s.Questions[s.Current].Kind() != entities.AnswerText) {
		e.presenter.StripControls(ctx, s.UserID, s.MessageID)
	}

	end := e.now()
	sum := Summary{
		Score:      s.Score,
		Total:      len(s.Questions),
		Percentage: Percentage(s.Score, len(s.Questions)),
		TimeSpent:  end.Sub(s.StartedAt),
	}

	if outcome == OutcomeCompleted {
		res := &entities.QuizResult{
			UserID:     s.UserID,
			Username:   s.Username,
			Nickname:   s.Nickname,
			Score:      s.Score,
			Total:      len(s.Questions),
			Percentage: sum.Percentage,
			TimeSpent:  sum.TimeSpent,
			StartedAt:  s.StartedAt,
			FinishedAt: end,
			Answers:    s.Answers,
		}
		if err := e.results.Save(ctx, res); err != nil {
			e.logger.Error("save quiz result",
				zap.Int64("user_id", s.UserID),
				zap.Error(err),
			)
		}
	}

	e.registry.Delete(s.UserID)

	e.presenter.AnnounceTermination(ctx, s.UserID, outcome, sum)
	e.presenter.ReturnToMenu(ctx, s.UserID)
}

func (e *Engine) viewFor(s *entities.Session, q entities.Question) QuestionView {
	return QuestionView{
		Number:    s.Current + 1,
		Total:     len(s.Questions),
		Text:      q.Text,
		Image:     q.Image,
		Kind:      q.Kind(),
		Options:   s.Prepared.Options,
		Selection: s.Selection,
	}
}

// renderSelection joins the selected option strings in ascending index order.
func renderSelection(prep entities.PreparedAnswers, sel entities.Selection) string {
	parts := make([]string, 0, 4)
	for _, i := range sel.SortedIndices() {
		parts = append(parts, prep.Options[i])
	}
	return strings.Join(parts, ", ")
}

// renderCorrect joins the correct option strings of the prepared question.
func renderCorrect(prep entities.PreparedAnswers, kind entities.AnswerKind) string {
	if kind == entities.AnswerSingle {
		return prep.Options[prep.Correct]
	}
	parts := make([]string, 0, len(prep.CorrectSet))
	for _, i := range prep.CorrectSet {
		parts = append(parts, prep.Options[i])
	}
	return strings.Join(parts, ", ")
}
