package ledger

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/ichiwatch/signal"
)

// Composite keys look like "BUY:2024-01-15". The signal type is one of
// exactly BUY/SELL and never contains the delimiter, so decoding splits at
// the first ':' only; the date substring may contain further delimiters
// without ambiguity.
const keySep = ":"

// Key encodes a (signal, date) pair as a composite ledger key.
func Key(sig signal.Signal, date string) string {
	return string(sig) + keySep + date
}

// ParseKey decodes a composite key back into its (signal, date) pair.
func ParseKey(key string) (signal.Signal, string, error) {
	parts := strings.SplitN(key, keySep, 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed ledger key %q", key)
	}
	sig := signal.Signal(parts[0])
	if sig != signal.Buy && sig != signal.Sell {
		return "", "", fmt.Errorf("unknown signal type in ledger key %q", key)
	}
	return sig, parts[1], nil
}
