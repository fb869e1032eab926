package cdc

import (
	"encoding/json"
	"time"
)

type EventName string

const (
	EventInsert EventName = "INSERT"
	EventRemove EventName = "REMOVE"
	EventModify EventName = "MODIFY"
)

// Entity tags carried on change records. Anything else is ignored.
const (
	EntityPosts = "posts"
	EntityLikes = "post_likes"
)

// RawRecord is one change observed on the primary store: the entity
// snapshot before and/or after the mutation, plus an opaque per-record
// sequence token. Delivery is at-least-once.
type RawRecord struct {
	EventName     EventName       `json:"event_name"`
	Entity        string          `json:"entity"`
	Before        json.RawMessage `json:"before,omitempty"`
	After         json.RawMessage `json:"after,omitempty"`
	SequenceToken string          `json:"sequence_token"`
}

type PostSnapshot struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	AuthorHandle  string    `json:"author_handle,omitempty"`
	Caption       string    `json:"caption,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	LikesCount    int64     `json:"likes_count,omitempty"`
	CommentsCount int64     `json:"comments_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReactionSnapshot carries the owner id and location key denormalized
// onto the reaction at creation time, so the counter path can locate
// the post without a secondary read.
type ReactionSnapshot struct {
	ActorID         string    `json:"actor_id"`
	PostID          string    `json:"post_id"`
	PostOwnerID     string    `json:"post_owner_id,omitempty"`
	PostLocationKey string    `json:"post_location_key,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
