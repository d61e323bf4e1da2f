package model

type MessageSource string

const (
	MessageSourceUser      = MessageSource("user")
	MessageSourceAssistant = MessageSource("assistant")
)

type Message struct {
	Source MessageSource
	Body   string
}

// Turn is one completed exchange with the model. The conversation memory
// rendered into prompts is a sequence of turns; it does not include the
// synthetic assistant message appended after intake, which exists only in
// the displayed message list.
type Turn struct {
	Human string
	AI    string
}
