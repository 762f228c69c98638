package calibration

import "time"

// Phase is the current stage of a calibration run.
type Phase int

const (
	PhaseIntro       Phase = iota // Waiting for the student to begin
	PhaseAssessment               // Serving timed questions
	PhaseCalculating              // Brief pause before results
	PhaseResults                  // Showing the scored result
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseAssessment:
		return "assessment"
	case PhaseCalculating:
		return "calculating"
	case PhaseResults:
		return "results"
	default:
		return "unknown"
	}
}

const (
	// FeedbackDelay is how long the correct/incorrect highlight stays up
	// before the next question.
	FeedbackDelay = 1200 * time.Millisecond

	// CalculationDelay is the pause between the last answer and the results.
	CalculationDelay = 2 * time.Second
)

// Quiz drives one calibration run. It owns no timers: the caller feeds it
// Tick once per second and calls Advance after FeedbackDelay following a
// selection. An expired question moves on immediately with no feedback.
type Quiz struct {
	questions []Question
	answers   []int
	phase     Phase
	current   int
	remaining int

	// feedback is true between a selection and Advance.
	feedback    bool
	lastChoice  int
	lastCorrect bool

	// generation increments on every question change so that stale timer
	// messages from a previous question can be ignored.
	generation int

	result *AssessmentResult
}

// NewQuiz creates a quiz over the given questions, in intro phase.
func NewQuiz(questions []Question) *Quiz {
	q := &Quiz{questions: questions}
	q.Reset()
	return q
}

// Reset returns the quiz to intro with all answers cleared.
func (q *Quiz) Reset() {
	q.answers = make([]int, len(q.questions))
	for i := range q.answers {
		q.answers[i] = NoAnswer
	}
	q.phase = PhaseIntro
	q.current = 0
	q.remaining = 0
	q.feedback = false
	q.lastChoice = NoAnswer
	q.lastCorrect = false
	q.generation++
	q.result = nil
}

// Start moves from intro to the first question. Returns false if the quiz
// was not in intro. An empty bank goes straight to calculating.
func (q *Quiz) Start() bool {
	if q.phase != PhaseIntro {
		return false
	}
	if len(q.questions) == 0 {
		q.phase = PhaseCalculating
		return true
	}
	q.phase = PhaseAssessment
	q.beginQuestion(0)
	return true
}

// Select records option for the current question. Selections are ignored
// outside the assessment phase, while feedback is showing, or when option
// is out of range.
func (q *Quiz) Select(option int) bool {
	if q.phase != PhaseAssessment || q.feedback {
		return false
	}
	cur := q.questions[q.current]
	if option < 0 || option >= len(cur.Options) {
		return false
	}
	q.answers[q.current] = option
	q.lastChoice = option
	q.lastCorrect = option == cur.CorrectIndex
	q.feedback = true
	return true
}

// Tick advances the countdown by one second. It reports true when the
// tick expired the question.
func (q *Quiz) Tick() bool {
	if q.phase != PhaseAssessment || q.feedback {
		return false
	}
	if q.remaining > 0 {
		q.remaining--
	}
	if q.remaining == 0 {
		return q.Expire()
	}
	return false
}

// Expire records NoAnswer for the current question and moves straight on
// to the next question, or to calculating after the last one.
func (q *Quiz) Expire() bool {
	if q.phase != PhaseAssessment || q.feedback {
		return false
	}
	q.answers[q.current] = NoAnswer
	q.remaining = 0
	q.next()
	return true
}

// Advance leaves feedback and moves to the next question, or to
// calculating after the last one.
func (q *Quiz) Advance() bool {
	if q.phase != PhaseAssessment || !q.feedback {
		return false
	}
	q.next()
	return true
}

func (q *Quiz) next() {
	n := q.current + 1
	if n >= len(q.questions) {
		q.feedback = false
		q.lastChoice = NoAnswer
		q.lastCorrect = false
		q.phase = PhaseCalculating
		q.generation++
		return
	}
	q.beginQuestion(n)
}

// Complete scores the run and moves to results. It is idempotent once
// results are available.
func (q *Quiz) Complete() (AssessmentResult, bool) {
	if q.phase == PhaseResults && q.result != nil {
		return *q.result, true
	}
	if q.phase != PhaseCalculating {
		return AssessmentResult{}, false
	}
	res := Score(q.questions, q.answers)
	q.result = &res
	q.phase = PhaseResults
	return res, true
}

func (q *Quiz) beginQuestion(i int) {
	q.current = i
	q.remaining = q.questions[i].Seconds()
	q.feedback = false
	q.lastChoice = NoAnswer
	q.lastCorrect = false
	q.generation++
}

// Phase returns the current phase.
func (q *Quiz) Phase() Phase { return q.phase }

// Index returns the zero-based index of the current question.
func (q *Quiz) Index() int { return q.current }

// Total returns the number of questions in the run.
func (q *Quiz) Total() int { return len(q.questions) }

// Remaining returns the seconds left on the current question.
func (q *Quiz) Remaining() int { return q.remaining }

// Generation identifies the current question instance for timer messages.
func (q *Quiz) Generation() int { return q.generation }

// InFeedback reports whether the answer highlight is showing.
func (q *Quiz) InFeedback() bool { return q.feedback }

// LastChoice returns the option picked for the current question, or NoAnswer.
func (q *Quiz) LastChoice() int { return q.lastChoice }

// LastCorrect reports whether the current question was answered correctly.
func (q *Quiz) LastCorrect() bool { return q.lastCorrect }

// Current returns the active question.
func (q *Quiz) Current() (Question, bool) {
	if q.phase != PhaseAssessment || q.current >= len(q.questions) {
		return Question{}, false
	}
	return q.questions[q.current], true
}

// Answers returns a copy of the recorded answers.
func (q *Quiz) Answers() []int {
	return append([]int(nil), q.answers...)
}

// Result returns the scored result once the quiz reached results.
func (q *Quiz) Result() (AssessmentResult, bool) {
	if q.result == nil {
		return AssessmentResult{}, false
	}
	return *q.result, true
}
