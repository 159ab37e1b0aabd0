package flow

import "strings"

type State int

const (
	StatePostName State = iota
	StatePlaceName
	StateAuthorName
	StateBodyText
	StateAddressAdd
	StateConfirm
	StateWaitingForConfirm
)

func (s State) String() string {
	switch s {
	case StatePostName:
		return "post_name"
	case StatePlaceName:
		return "place_name"
	case StateAuthorName:
		return "author_name"
	case StateBodyText:
		return "body_text"
	case StateAddressAdd:
		return "address_add"
	case StateConfirm:
		return "confirm"
	case StateWaitingForConfirm:
		return "waiting_for_confirm"
	}
	return "unknown"
}

// fieldStep describes a state that stores the incoming text as one draft field.
type fieldStep struct {
	next        State
	replyKey    string
	echoesInput bool
}

var fieldSteps = map[State]fieldStep{
	StatePostName:   {next: StatePlaceName, replyKey: "post_name_accepted", echoesInput: true},
	StatePlaceName:  {next: StateAuthorName, replyKey: "place_name_accepted", echoesInput: true},
	StateAuthorName: {next: StateBodyText, replyKey: "author_name_accepted", echoesInput: true},
	StateBodyText:   {next: StateAddressAdd, replyKey: "body_text_accepted"},
}

var (
	stopWords = []string{"стоп", "stop"}
	yesWords  = []string{"да", "yes"}
	noWords   = []string{"нет", "no"}
)

func isOneOf(text string, words []string) bool {
	for _, w := range words {
		if strings.EqualFold(text, w) {
			return true
		}
	}
	return false
}
