package nostrnode

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SecretKey is a raw secp256k1 private key. This package never stores one:
// it is taken as an argument by every function that signs.
type SecretKey [32]byte

func (sk SecretKey) String() string { return "sk::<redacted>" }
func (sk SecretKey) Hex() string    { return hex.EncodeToString(sk[:]) }

// Public returns the x-only public key for sk. It doesn't validate sk, call Check for that.
func (sk SecretKey) Public() PubKey { return GetPublicKey(sk) }

// Check returns an *InvalidKeyError if sk is zero or not smaller than the curve order.
func (sk SecretKey) Check() error {
	var s secp256k1.ModNScalar
	if overflow := s.SetBytes((*[32]byte)(&sk)); overflow != 0 {
		return &InvalidKeyError{Reason: "secret key is not smaller than the curve order"}
	}
	if s.IsZero() {
		return &InvalidKeyError{Reason: "secret key is zero"}
	}
	return nil
}

// SecretKeyFromHex parses and validates a 64-char hex secret key.
func SecretKeyFromHex(skh string) (SecretKey, error) {
	sk := SecretKey{}
	if len(skh) != 64 {
		return sk, &InvalidKeyError{Reason: fmt.Sprintf("secret key should be 64-char hex, got %d chars", len(skh))}
	}
	if _, err := hex.Decode(sk[:], []byte(skh)); err != nil {
		return sk, &InvalidKeyError{Reason: "secret key is not valid hex"}
	}
	return sk, sk.Check()
}

func GetPublicKey(sk SecretKey) PubKey {
	_, pk := btcec.PrivKeyFromBytes(sk[:])
	return [32]byte(pk.SerializeCompressed()[1:])
}

func IsValidPublicKey(pk PubKey) bool {
	_, err := schnorr.ParsePubKey(pk[:])
	return err == nil
}
