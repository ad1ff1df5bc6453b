package nostrnode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDJSONEncoding(t *testing.T) {
	id := MustIDFromHex("abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789")

	b, err := json.Marshal(id)
	require.NoError(t, err)
	require.Equal(t, `"abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"`, string(b))

	var id2 ID
	err = json.Unmarshal(b, &id2)
	require.NoError(t, err)
	require.Equal(t, id, id2)

	err = json.Unmarshal([]byte(`"not64chars"`), &id2)
	require.Error(t, err)

	err = json.Unmarshal([]byte(`"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"`), &id2)
	require.Error(t, err)
}

func TestPubKeyFromHex(t *testing.T) {
	// x coordinate of the generator point, always valid
	_, err := PubKeyFromHex("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	require.NoError(t, err)

	// the field prime itself is not a valid x coordinate
	_, err = PubKeyFromHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
	require.Error(t, err)

	_, err = PubKeyFromHex("abc")
	require.Error(t, err)

	_, err = PubKeyFromHexCheap("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")
	require.Error(t, err)
}

type testStruct struct {
	ID     ID     `json:"id"`
	PubKey PubKey `json:"pubkey"`
	Name   string `json:"name"`
}

func TestStructWithIDAndPubKey(t *testing.T) {
	ts := testStruct{
		ID:     MustIDFromHex("abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"),
		PubKey: MustPubKeyFromHex("123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef0"),
		Name:   "test",
	}

	b, err := json.Marshal(ts)
	require.NoError(t, err)
	require.Equal(t, `{"id":"abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789","pubkey":"123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef0","name":"test"}`, string(b))

	var ts2 testStruct
	err = json.Unmarshal(b, &ts2)
	require.NoError(t, err)
	require.Equal(t, ts, ts2)

	var ts3 testStruct
	err = json.Unmarshal([]byte(`{"name":"test"}`), &ts3)
	require.NoError(t, err)
	require.Equal(t, ZeroID, ts3.ID)
	require.Equal(t, ZeroPK, ts3.PubKey)

	err = json.Unmarshal([]byte(`{"id":"invalid","pubkey":"123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef0","name":"test"}`), &ts2)
	require.Error(t, err)
}
