package nostrnode

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventJSONRoundtrip(t *testing.T) {
	evt, err := EventTemplate{
		CreatedAt: 1700000000,
		Kind:      KindTextNote,
		Tags:      Tags{{"t", "<tag>"}, {"e", "x", "wss://r"}},
		Content:   "line\nwith <html> & \"quotes\"  ",
	}.Sign(testKey)
	require.NoError(t, err)

	j, err := json.Marshal(evt)
	require.NoError(t, err)

	var back Event
	require.NoError(t, json.Unmarshal(j, &back))
	require.Equal(t, evt, back)
	require.True(t, back.Verify())
}

func TestEventJSONAliases(t *testing.T) {
	evt, err := EventTemplate{CreatedAt: 1700000000, Kind: 0, Content: "{}"}.Sign(testKey)
	require.NoError(t, err)

	aliased := `{"id":"` + evt.ID.Hex() +
		`","author_pubkey":"` + evt.PubKey.Hex() +
		`","created_at":1700000000,"kind":0,"tags":[],"content":"{}","signature":"` +
		hex.EncodeToString(evt.Sig[:]) + `","extra":{"ignored":[1,2]}}`

	var back Event
	require.NoError(t, json.Unmarshal([]byte(aliased), &back))
	require.Equal(t, evt, back)
	require.True(t, back.Verify())
}

func TestEventJSONErrors(t *testing.T) {
	for _, bad := range []string{
		`{"id":"abc"}`,
		`{"pubkey":"zz"}`,
		`{"sig":"00"}`,
		`{"kind":70000}`,
		`{"created_at":"yesterday"}`,
		`{"tags":"nope"}`,
		`[1,2,3]`,
		`{"content":`,
	} {
		var evt Event
		require.Error(t, evt.UnmarshalJSON([]byte(bad)), bad)
	}
}

func TestEventJSONShape(t *testing.T) {
	evt := Event{CreatedAt: 5, Kind: 1, Content: "hi"}
	require.Equal(t,
		`{"id":"0000000000000000000000000000000000000000000000000000000000000000",`+
			`"pubkey":"0000000000000000000000000000000000000000000000000000000000000000",`+
			`"created_at":5,"kind":1,"tags":[],"content":"hi",`+
			`"sig":"00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"}`,
		evt.String())
}
