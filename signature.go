package nostrnode

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Verify recomputes the id from the event fields and returns true only if it
// matches evt.ID and the BIP-340 signature is valid for that id and evt.PubKey.
// It never panics and never returns an error: anything malformed is just false,
// including content or tags that are not valid UTF-8.
func (evt Event) Verify() bool {
	if !validUTF8(evt.Content, evt.Tags) {
		return false
	}

	id := evt.GetID()
	if id != evt.ID {
		return false
	}

	pubkey, err := schnorr.ParsePubKey(evt.PubKey[:])
	if err != nil {
		return false
	}

	sig, err := schnorr.ParseSignature(evt.Sig[:])
	if err != nil {
		return false
	}

	return sig.Verify(id[:], pubkey)
}

// Sign produces a new Event from these fields signed by secretKey.
//
// The signature is deterministic (BIP-340 nonce derived from the key and the id),
// so signing the same template twice with the same key yields byte-identical
// events. Tags are deep-copied so the result doesn't share memory with the template.
func (tmpl EventTemplate) Sign(secretKey SecretKey) (Event, error) {
	if err := secretKey.Check(); err != nil {
		return Event{}, err
	}
	if !validUTF8(tmpl.Content, tmpl.Tags) {
		return Event{}, ErrInvalidUTF8
	}

	sk, pk := btcec.PrivKeyFromBytes(secretKey[:])
	evt := Event{
		PubKey:    [32]byte(pk.SerializeCompressed()[1:]),
		CreatedAt: tmpl.CreatedAt,
		Kind:      tmpl.Kind,
		Tags:      tmpl.Tags.CloneDeep(),
		Content:   tmpl.Content,
	}

	h := evt.GetID()
	sig, err := schnorr.Sign(sk, h[:], schnorr.FastSign())
	if err != nil {
		return Event{}, err
	}

	evt.ID = h
	evt.Sig = [64]byte(sig.Serialize())
	return evt, nil
}
