package nostrnode

import jsoniter "github.com/json-iterator/go"

// json is used for everything that goes inside an event's content and for the
// payloads exchanged with nodes. Keys are sorted and HTML is left unescaped so
// the same object always produces the same content string.
var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// JSON exposes the same configuration to other packages.
func JSON() jsoniter.API { return json }
