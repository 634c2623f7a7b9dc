package feed

import "github.com/kasuganosora/craftmirror/codec"

// Subprotocol is the text subprotocol the change-feed socket speaks.
const Subprotocol = "v1.text.spacetimedb"

// Row operation tags on the wire.
const (
	opInsert = "insert"
	opDelete = "delete"
)

// subscribeRequest is the one message the client sends after connect.
type subscribeRequest struct {
	Subscribe subscribeBody `json:"subscribe"`
}

type subscribeBody struct {
	QueryStrings []string `json:"query_strings"`
}

// serverMessage is the envelope of every inbound frame. Frames without
// a TransactionUpdate (initial subscription dumps, keepalives) are
// ignored.
type serverMessage struct {
	TransactionUpdate *transactionUpdate `json:"TransactionUpdate"`
}

type transactionUpdate struct {
	Event              transactionEvent   `json:"event"`
	SubscriptionUpdate subscriptionUpdate `json:"subscription_update"`
}

type transactionEvent struct {
	CallerIdentity string `json:"caller_identity"`
	Timestamp      int64  `json:"timestamp"`
}

type subscriptionUpdate struct {
	TableUpdates []tableUpdate `json:"table_updates"`
}

type tableUpdate struct {
	TableRowOperations []rowOperation `json:"table_row_operations"`
}

type rowOperation struct {
	Op  string      `json:"op"`
	Row codec.Tuple `json:"row"`
}
