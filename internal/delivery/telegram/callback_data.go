package telegram

import (
	"strconv"
	"strings"

	"github.com/dmzaytsev/forum-quiz-bot/internal/quiz"
)

// Callback action constants.
const (
	actionQuiz = "quiz"
)

// Quiz sub-actions.
const (
	quizConsent = "consent"
	quizToggle  = "toggle"
	quizSubmit  = "submit"
	quizExit    = "exit"
)

const (
	consentYes = "yes"
	consentNo  = "no"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildConsentCallback builds callback data for the nickname consent answer.
func buildConsentCallback(answer string, userID int64) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizConsent, answer, strconv.FormatInt(userID, 10)},
	}.encode()
}

// buildToggleCallback builds callback data for toggling an option.
func buildToggleCallback(userID int64, index int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizToggle, strconv.FormatInt(userID, 10), strconv.Itoa(index)},
	}.encode()
}

// buildSubmitCallback builds callback data for confirming the selection.
func buildSubmitCallback(userID int64) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizSubmit, strconv.FormatInt(userID, 10)},
	}.encode()
}

// buildExitCallback builds callback data for leaving the quiz.
func buildExitCallback(userID int64) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizExit, strconv.FormatInt(userID, 10)},
	}.encode()
}

// decodeQuizEvent turns quiz callback data into a state machine event. The
// second return value is the user id embedded in the token; a mismatch with
// the actual sender means a replayed or forwarded button and the event must
// be dropped.
func decodeQuizEvent(cd callbackData) (quiz.Event, int64, bool) {
	if cd.Action != actionQuiz || len(cd.Params) < 2 {
		return quiz.Event{}, 0, false
	}

	switch cd.Params[0] {
	case quizConsent:
		if len(cd.Params) != 3 {
			return quiz.Event{}, 0, false
		}
		uid, err := strconv.ParseInt(cd.Params[2], 10, 64)
		if err != nil {
			return quiz.Event{}, 0, false
		}
		switch cd.Params[1] {
		case consentYes:
			return quiz.Event{Kind: quiz.EventConsentYes}, uid, true
		case consentNo:
			return quiz.Event{Kind: quiz.EventConsentNo}, uid, true
		}
		return quiz.Event{}, 0, false

	case quizToggle:
		if len(cd.Params) != 3 {
			return quiz.Event{}, 0, false
		}
		uid, err1 := strconv.ParseInt(cd.Params[1], 10, 64)
		index, err2 := strconv.Atoi(cd.Params[2])
		if err1 != nil || err2 != nil {
			return quiz.Event{}, 0, false
		}
		return quiz.Event{Kind: quiz.EventToggle, Index: index}, uid, true

	case quizSubmit:
		uid, err := strconv.ParseInt(cd.Params[1], 10, 64)
		if err != nil {
			return quiz.Event{}, 0, false
		}
		return quiz.Event{Kind: quiz.EventSubmit}, uid, true

	case quizExit:
		uid, err := strconv.ParseInt(cd.Params[1], 10, 64)
		if err != nil {
			return quiz.Event{}, 0, false
		}
		return quiz.Event{Kind: quiz.EventExit}, uid, true

	default:
		return quiz.Event{}, 0, false
	}
}
