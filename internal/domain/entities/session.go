package entities

import (
	"sort"
	"time"
)

// Phase is the lifecycle phase of a quiz session.
type Phase int

const (
	PhaseAwaitingConsent  Phase = iota // asked whether the user has a forum nickname
	PhaseAwaitingNickname              // consent was "yes", waiting for free text
	PhaseInProgress                    // questions are being delivered
)

// SelectionKind narrows the in-progress selection buffer to the shape the
// current question expects.
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionSingle
	SelectionMultiple
)

// Selection is the in-progress answer buffer for the current question:
// nothing, one index, or a set of indices.
type Selection struct {
	Kind    SelectionKind
	Index   int
	Indices map[int]struct{}
}

// NewSelection returns an empty selection buffer for the given answer kind.
func NewSelection(kind AnswerKind) Selection {
	switch kind {
	case AnswerSingle:
		return Selection{Kind: SelectionNone}
	case AnswerMultiple:
		return Selection{Kind: SelectionMultiple, Indices: make(map[int]struct{})}
	default:
		return Selection{Kind: SelectionNone}
	}
}

// ToggleSingle selects index i, or clears the selection when i is already
// selected.
func (s *Selection) ToggleSingle(i int) {
	if s.Kind == SelectionSingle && s.Index == i {
		s.Kind = SelectionNone
		return
	}
	s.Kind = SelectionSingle
	s.Index = i
}

// ToggleMultiple flips membership of index i in the selected set.
func (s *Selection) ToggleMultiple(i int) {
	if s.Indices == nil {
		s.Indices = make(map[int]struct{})
	}
	s.Kind = SelectionMultiple
	if _, ok := s.Indices[i]; ok {
		delete(s.Indices, i)
		return
	}
	s.Indices[i] = struct{}{}
}

// Empty reports whether nothing is selected yet.
func (s Selection) Empty() bool {
	switch s.Kind {
	case SelectionSingle:
		return false
	case SelectionMultiple:
		return len(s.Indices) == 0
	default:
		return true
	}
}

// Contains reports whether index i is currently selected.
func (s Selection) Contains(i int) bool {
	switch s.Kind {
	case SelectionSingle:
		return s.Index == i
	case SelectionMultiple:
		_, ok := s.Indices[i]
		return ok
	default:
		return false
	}
}

// SortedIndices returns the selected indices in ascending order.
func (s Selection) SortedIndices() []int {
	if s.Kind == SelectionSingle {
		return []int{s.Index}
	}
	out := make([]int, 0, len(s.Indices))
	for i := range s.Indices {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// AnswerRecord is one scored question of a session. Records are append-only
// and never mutated after insertion.
type AnswerRecord struct {
	QuestionIndex int       `json:"questionIndex"`
	Question      string    `json:"question"`
	Selected      string    `json:"selectedAnswer"`
	Correct       string    `json:"correctAnswer"`
	IsCorrect     bool      `json:"isCorrect"`
	AnsweredAt    time.Time `json:"answeredAt"`
}

// Session is the live per-user quiz state, owned by the registry from the
// start request until termination.
type Session struct {
	UserID    int64
	Username  string
	Phase     Phase
	Nickname  string // empty means absent

	Bank      []Question // validated bank captured at the start request
	Questions []Question // sequenced order for this session
	Current   int
	Score     int
	Answers   []AnswerRecord

	Prepared  PreparedAnswers // presentation of the current question
	Selection Selection

	MessageID int // last rendered interactive message, 0 when none
	StartedAt time.Time
	Deadline  time.Time

	// Timer is the armed timeout; Seq invalidates firings that outlive the
	// session they were armed for.
	Timer *time.Timer
	Seq   uint64
}

// StopTimer cancels the armed timeout, if any.
func (s *Session) StopTimer() {
	if s.Timer != nil {
		s.Timer.Stop()
		s.Timer = nil
	}
}
