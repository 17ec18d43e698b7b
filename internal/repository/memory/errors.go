package memory

import "errors"

var (
	errTxStarted = errors.New("transaction already started")
	errNoTx      = errors.New("no transaction")
)
