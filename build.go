package nostrnode

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// BuildEvent prepares the fields of an event without signing it.
//
// content may be a string, which is used verbatim, a []byte holding JSON, or any
// other value, which is JSON-encoded with sorted map keys. A zero createdAt means now.
func BuildEvent(kind Kind, tags Tags, content any, createdAt Timestamp) (EventTemplate, error) {
	if createdAt == 0 {
		createdAt = Now()
	}

	var str string
	switch c := content.(type) {
	case string:
		str = c
	case []byte:
		if !json.Valid(c) {
			return EventTemplate{}, fmt.Errorf("content bytes are not valid json")
		}
		str = string(c)
	default:
		j, err := json.Marshal(content)
		if err != nil {
			return EventTemplate{}, fmt.Errorf("failed to encode content: %w", err)
		}
		str = string(j)
	}

	if tags == nil {
		tags = Tags{}
	}
	if !validUTF8(str, tags) {
		return EventTemplate{}, ErrInvalidUTF8
	}

	return EventTemplate{
		CreatedAt: createdAt,
		Kind:      kind,
		Tags:      tags,
		Content:   str,
	}, nil
}

// BuildControlEnvelope prepares an unsigned KindNodeControl event whose content is
// the JSON object {"command": command, ...payload}.
// The payload can't have its own "command" key.
func BuildControlEnvelope(command string, payload map[string]any, createdAt Timestamp) (EventTemplate, error) {
	if command == "" {
		return EventTemplate{}, fmt.Errorf("envelope command can't be empty")
	}

	obj := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		if k == "command" {
			return EventTemplate{}, fmt.Errorf("envelope payload can't override the command")
		}
		obj[k] = v
	}
	obj["command"] = command

	return BuildEvent(KindNodeControl, Tags{}, obj, createdAt)
}

// PublishEventEnvelope prepares a PUBLISH_EVENT envelope carrying evt.
// evt keeps its own signature, which may come from a different key than the
// one that will sign the envelope.
func PublishEventEnvelope(evt Event, createdAt Timestamp) (EventTemplate, error) {
	return BuildControlEnvelope(CommandPublishEvent, map[string]any{"event": evt}, createdAt)
}

// ControlCommandOf reads the "command" field from the content of a control envelope.
func ControlCommandOf(evt Event) (string, bool) {
	if evt.Kind != KindNodeControl || !gjson.Valid(evt.Content) {
		return "", false
	}
	res := gjson.Get(evt.Content, "command")
	if res.Type != gjson.String || res.Str == "" {
		return "", false
	}
	return res.Str, true
}
