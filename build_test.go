package nostrnode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildEventContent(t *testing.T) {
	tmpl, err := BuildEvent(KindTextNote, nil, "raw string", 10)
	require.NoError(t, err)
	require.Equal(t, "raw string", tmpl.Content)
	require.NotNil(t, tmpl.Tags)
	require.Len(t, tmpl.Tags, 0)

	tmpl, err = BuildEvent(KindProfileMetadata, nil, []byte(`{"b":1,"a":2}`), 10)
	require.NoError(t, err)
	require.Equal(t, `{"b":1,"a":2}`, tmpl.Content)

	_, err = BuildEvent(KindProfileMetadata, nil, []byte(`{not json`), 10)
	require.Error(t, err)

	tmpl, err = BuildEvent(KindProfileMetadata, nil, map[string]any{"z": "<&>", "a": 1}, 10)
	require.NoError(t, err)
	require.Equal(t, `{"a":1,"z":"<&>"}`, tmpl.Content)

	_, err = BuildEvent(KindProfileMetadata, nil, make(chan int), 10)
	require.Error(t, err)
}

func TestBuildEventInvalidUTF8(t *testing.T) {
	_, err := BuildEvent(KindTextNote, nil, "bad \xff byte", 10)
	require.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = BuildEvent(KindTextNote, Tags{{"t", "\xff"}}, "fine", 10)
	require.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = BuildEvent(KindTextNote, Tags{{"t", "ñ"}}, "ünïcödé", 10)
	require.NoError(t, err)
}

func TestBuildEventDefaultsToNow(t *testing.T) {
	before := Now()
	tmpl, err := BuildEvent(KindTextNote, nil, "", 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, tmpl.CreatedAt, before)
	require.LessOrEqual(t, tmpl.CreatedAt, Now())
}

func TestBuildControlEnvelope(t *testing.T) {
	inner, err := EventTemplate{CreatedAt: 1700000000, Kind: 0, Content: `{"display_name":"A"}`}.Sign(testKey)
	require.NoError(t, err)

	tmpl, err := PublishEventEnvelope(inner, 1700000001)
	require.NoError(t, err)
	require.Equal(t, KindNodeControl, tmpl.Kind)
	require.Equal(t, Timestamp(1700000001), tmpl.CreatedAt)
	require.Equal(t, `{"command":"PUBLISH_EVENT","event":`+inner.String()+`}`, tmpl.Content)

	envelope, err := tmpl.Sign(testKey)
	require.NoError(t, err)
	require.True(t, envelope.Verify())
	require.NotEqual(t, inner.ID, envelope.ID)

	cmd, ok := ControlCommandOf(envelope)
	require.True(t, ok)
	require.Equal(t, CommandPublishEvent, cmd)

	// the inner event survives the trip through the envelope content untouched
	var carried struct {
		Event Event `json:"event"`
	}
	require.NoError(t, json.Unmarshal([]byte(envelope.Content), &carried))
	require.Equal(t, inner, carried.Event)
	require.True(t, carried.Event.Verify())
}

func TestBuildControlEnvelopeErrors(t *testing.T) {
	_, err := BuildControlEnvelope("", nil, 1)
	require.Error(t, err)

	_, err = BuildControlEnvelope(CommandGetEvent, map[string]any{"command": "other"}, 1)
	require.Error(t, err)

	tmpl, err := BuildControlEnvelope(CommandGetEvent, nil, 1)
	require.NoError(t, err)
	require.Equal(t, `{"command":"GET_EVENT"}`, tmpl.Content)
}

func TestControlCommandOf(t *testing.T) {
	_, ok := ControlCommandOf(Event{Kind: KindTextNote, Content: `{"command":"X"}`})
	require.False(t, ok)
	_, ok = ControlCommandOf(Event{Kind: KindNodeControl, Content: `not json`})
	require.False(t, ok)
	_, ok = ControlCommandOf(Event{Kind: KindNodeControl, Content: `{"command":7}`})
	require.False(t, ok)
	cmd, ok := ControlCommandOf(Event{Kind: KindNodeControl, Content: `{"command":"X"}`})
	require.True(t, ok)
	require.Equal(t, "X", cmd)
}
