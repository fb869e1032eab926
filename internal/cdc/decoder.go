package cdc

import (
	"encoding/json"
	"log"
)

// Decode classifies one raw change record into a typed event, or nil
// when the record is not for this engine: unknown entity, an event
// kind with no effect here, or an image missing required fields.
// Malformed records are logged and dropped, never raised, so one bad
// record cannot abort a batch. Optional image fields simply stay at
// their zero values.
func Decode(rec RawRecord) Event {
	switch rec.Entity {
	case EntityPosts:
		return decodePost(rec)
	case EntityLikes:
		return decodeReaction(rec)
	}
	return nil
}

func decodePost(rec RawRecord) Event {
	// Post removals and counter piggyback updates (MODIFY) never
	// trigger fan-out.
	if rec.EventName != EventInsert {
		return nil
	}
	if len(rec.After) == 0 {
		log.Printf("cdc: post insert without after image seq=%s", rec.SequenceToken)
		return nil
	}
	var post PostSnapshot
	if err := json.Unmarshal(rec.After, &post); err != nil {
		log.Printf("cdc: bad post image seq=%s: %v", rec.SequenceToken, err)
		return nil
	}
	if post.ID == "" || post.AuthorID == "" || post.CreatedAt.IsZero() {
		log.Printf("cdc: post image missing required fields seq=%s", rec.SequenceToken)
		return nil
	}
	return PostInserted{Post: post, SequenceToken: rec.SequenceToken}
}

func decodeReaction(rec RawRecord) Event {
	var image json.RawMessage
	switch rec.EventName {
	case EventInsert:
		image = rec.After
	case EventRemove:
		image = rec.Before
	default:
		return nil
	}
	if len(image) == 0 {
		log.Printf("cdc: reaction %s without image seq=%s", rec.EventName, rec.SequenceToken)
		return nil
	}
	var reaction ReactionSnapshot
	if err := json.Unmarshal(image, &reaction); err != nil {
		log.Printf("cdc: bad reaction image seq=%s: %v", rec.SequenceToken, err)
		return nil
	}
	if reaction.ActorID == "" || reaction.PostID == "" {
		log.Printf("cdc: reaction image missing required fields seq=%s", rec.SequenceToken)
		return nil
	}
	if rec.EventName == EventInsert {
		return ReactionInserted{Reaction: reaction, SequenceToken: rec.SequenceToken}
	}
	return ReactionRemoved{Reaction: reaction, SequenceToken: rec.SequenceToken}
}
