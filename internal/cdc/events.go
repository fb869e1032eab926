package cdc

// Event is the closed set of decoded change events this engine acts
// on. The orchestrator switches over the concrete types; a nil Event
// means the record was irrelevant or unusable.
type Event interface {
	isEvent()
}

type PostInserted struct {
	Post          PostSnapshot
	SequenceToken string
}

type ReactionInserted struct {
	Reaction      ReactionSnapshot
	SequenceToken string
}

type ReactionRemoved struct {
	Reaction      ReactionSnapshot
	SequenceToken string
}

func (PostInserted) isEvent()     {}
func (ReactionInserted) isEvent() {}
func (ReactionRemoved) isEvent()  {}
