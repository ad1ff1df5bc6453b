package nostrnode

import (
	"crypto/sha256"
	"errors"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when content or a tag item is not valid UTF-8.
// Such an event could be hashed and signed but JSON encoders would rewrite
// the bad bytes, so it would never verify anywhere else.
var ErrInvalidUTF8 = errors.New("content and tags must be valid utf-8")

// Event represents a signed Nostr event.
//
// Events are values: once signed they should not be modified, any change to
// the fields requires signing a new event from an EventTemplate.
type Event struct {
	ID        ID
	PubKey    PubKey
	CreatedAt Timestamp
	Kind      Kind
	Tags      Tags
	Content   string
	Sig       [64]byte
}

// EventTemplate holds the fields of an event that the author chooses.
// The pubkey, id and signature are only known after signing.
type EventTemplate struct {
	CreatedAt Timestamp
	Kind      Kind
	Tags      Tags
	Content   string
}

// GetID serializes the event and returns the hash of the serialization.
func (evt Event) GetID() ID {
	return sha256.Sum256(evt.Serialize())
}

// CheckID checks if the implied ID matches the one stored in the event.
func (evt Event) CheckID() bool {
	return evt.GetID() == evt.ID
}

func validUTF8(content string, tags Tags) bool {
	if !utf8.ValidString(content) {
		return false
	}
	for _, tag := range tags {
		for _, item := range tag {
			if !utf8.ValidString(item) {
				return false
			}
		}
	}
	return true
}

// Template returns the author-chosen fields of this event.
func (evt Event) Template() EventTemplate {
	return EventTemplate{
		CreatedAt: evt.CreatedAt,
		Kind:      evt.Kind,
		Tags:      evt.Tags.CloneDeep(),
		Content:   evt.Content,
	}
}
