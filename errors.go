package nostrnode

// InvalidKeyError is returned when a secret key is malformed, zero or out of range.
// It is never worth retrying an operation that failed with it.
type InvalidKeyError struct {
	Reason string
}

func (e *InvalidKeyError) Error() string { return "invalid secret key: " + e.Reason }
