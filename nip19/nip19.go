package nip19

import (
	"fmt"
	"strings"

	"fiatjaf.com/nostrnode"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Decode reads an nsec, npub or note and returns its prefix and value, which is
// a nostrnode.SecretKey, nostrnode.PubKey or nostrnode.ID respectively.
func Decode(bech32string string) (prefix string, value any, err error) {
	prefix, bits5, err := bech32.DecodeNoLimit(bech32string)
	if err != nil {
		return "", nil, err
	}

	data, err := bech32.ConvertBits(bits5, 5, 8, false)
	if err != nil {
		return prefix, nil, fmt.Errorf("failed to translate data into 8 bits: %s", err.Error())
	}

	switch prefix {
	case "nsec":
		if len(data) != 32 {
			return prefix, nil, fmt.Errorf("nsec should be 32 bytes (%d)", len(data))
		}
		return prefix, nostrnode.SecretKey(data[0:32]), nil
	case "note":
		if len(data) != 32 {
			return prefix, nil, fmt.Errorf("note should be 32 bytes (%d)", len(data))
		}
		return prefix, nostrnode.ID(data[0:32]), nil
	case "npub":
		if len(data) != 32 {
			return prefix, nil, fmt.Errorf("npub should be 32 bytes (%d)", len(data))
		}
		return prefix, nostrnode.PubKey(data[0:32]), nil
	}

	return prefix, data, fmt.Errorf("unknown tag %s", prefix)
}

func EncodeNsec(sk nostrnode.SecretKey) string {
	return encode32("nsec", sk)
}

func EncodeNpub(pk nostrnode.PubKey) string {
	return encode32("npub", pk)
}

func EncodeNote(id nostrnode.ID) string {
	return encode32("note", id)
}

func encode32(prefix string, data [32]byte) string {
	bits5, _ := bech32.ConvertBits(data[:], 8, 5, true)
	res, _ := bech32.Encode(prefix, bits5)
	return res
}

// ParseSecretKey accepts an nsec or a 64-char hex key. Any failure is a
// *nostrnode.InvalidKeyError.
func ParseSecretKey(input string) (nostrnode.SecretKey, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "nsec1") {
		return nostrnode.SecretKeyFromHex(input)
	}

	_, value, err := Decode(input)
	if err != nil {
		return nostrnode.SecretKey{}, &nostrnode.InvalidKeyError{Reason: "bad nsec: " + err.Error()}
	}
	sk := value.(nostrnode.SecretKey)
	return sk, sk.Check()
}

// ParsePubKey accepts an npub or a 64-char hex public key and checks it is on the curve.
func ParsePubKey(input string) (nostrnode.PubKey, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "npub1") {
		return nostrnode.PubKeyFromHex(input)
	}

	_, value, err := Decode(input)
	if err != nil {
		return nostrnode.ZeroPK, fmt.Errorf("bad npub: %w", err)
	}
	pk := value.(nostrnode.PubKey)
	if !nostrnode.IsValidPublicKey(pk) {
		return pk, fmt.Errorf("'%s' is not a valid pubkey", input)
	}
	return pk, nil
}
