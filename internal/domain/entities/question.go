package entities

// AnswerKind identifies how a question is answered and evaluated.
type AnswerKind string

const (
	AnswerSingle   AnswerKind = "single"   // one option, confirmed with a submit button
	AnswerMultiple AnswerKind = "multiple" // several options, confirmed with a submit button
	AnswerText     AnswerKind = "text"     // free text, scored immediately
)

// QuestionBody holds the fields that are only valid for one answer kind.
// The bank loader guarantees that a body always matches its declared kind,
// so evaluation never has to guess the shape.
type QuestionBody interface {
	Kind() AnswerKind
}

// SingleChoice is a question with one correct option.
type SingleChoice struct {
	Options []string // presented options in bank order
	Correct int      // index into Options
}

func (SingleChoice) Kind() AnswerKind { return AnswerSingle }

// MultipleChoice is a question with a set of correct options.
type MultipleChoice struct {
	Options []string
	Correct []int // indices into Options
}

func (MultipleChoice) Kind() AnswerKind { return AnswerMultiple }

// TextAnswer is a free-text question. Matching ignores case and whitespace.
type TextAnswer struct {
	Correct string
}

func (TextAnswer) Kind() AnswerKind { return AnswerText }

// Question is a single validated entry of the quiz bank.
type Question struct {
	Text              string // prompt text
	Image             string // optional image file name inside the images dir
	AllAnswersCorrect bool   // override: any submission is scored as correct
	Body              QuestionBody
}

// Kind reports the answer kind of the question's body.
func (q Question) Kind() AnswerKind { return q.Body.Kind() }

// PreparedAnswers is the presentation of a question's options for one
// session: the (possibly shuffled) option order together with the
// correctness descriptor remapped into that order.
type PreparedAnswers struct {
	Options    []string
	Correct    int   // single choice
	CorrectSet []int // multiple choice
}
