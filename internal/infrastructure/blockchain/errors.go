package blockchain

import "errors"

// Feed error taxonomy. Transport failures are kept distinct from retrieval
// and parsing failures so callers can diagnose the failure origin without
// depending on node client error types. Classification itself never produces
// errors; unrecognized input is signaled by absence.
var (
	// ErrConnection indicates the WebSocket connection or subscription to the
	// node failed.
	ErrConnection = errors.New("node connection failed")

	// ErrRetrieval indicates a transaction announced on the feed could not be
	// retrieved from the node.
	ErrRetrieval = errors.New("transaction retrieval failed")

	// ErrParse indicates retrieved transaction data could not be converted
	// into a RawTransaction.
	ErrParse = errors.New("transaction parsing failed")
)
