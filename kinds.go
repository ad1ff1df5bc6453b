package nostrnode

import "strconv"

type Kind uint16

func (kind Kind) String() string { return "kind::" + kind.Name() + "<" + strconv.Itoa(int(kind)) + ">" }
func (kind Kind) Name() string {
	switch kind {
	case KindProfileMetadata:
		return "ProfileMetadata"
	case KindTextNote:
		return "TextNote"
	case KindApplicationSpecificData:
		return "ApplicationSpecificData"
	case KindNodeControl:
		return "NodeControl"
	}
	return "unknown"
}

const (
	KindProfileMetadata         Kind = 0
	KindTextNote                Kind = 1
	KindApplicationSpecificData Kind = 30078

	// KindNodeControl is reserved for control envelopes and node responses.
	// It sits in the ephemeral range: envelopes are never stored.
	KindNodeControl Kind = 24100
)

func (kind Kind) IsReplaceable() bool {
	return kind == 0 || kind == 3 || (10000 <= kind && kind < 20000)
}

func (kind Kind) IsEphemeral() bool {
	return 20000 <= kind && kind < 30000
}

func (kind Kind) IsAddressable() bool {
	return 30000 <= kind && kind < 40000
}
