package nostrnode

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is copied by the components of this module when they are created
// without an explicit logger. Lower the level to see trust decisions.
var Logger = zerolog.New(os.Stderr).With().Timestamp().Str("lib", "nostrnode").Logger().Level(zerolog.WarnLevel)
