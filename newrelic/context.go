package newrelic

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// ContextWithTxn starts a transaction with the given name on the provided
// *newrelic.Application and attaches it to the context. A nil application
// yields an empty transaction whose methods are all safe no-ops, so callers
// never need to branch on whether the agent is enabled.
func ContextWithTxn(parent context.Context, name string, app *newrelic.Application) (context.Context, *newrelic.Transaction) {
	var txn *newrelic.Transaction
	if app == nil {
		txn = &newrelic.Transaction{}
	} else {
		txn = app.StartTransaction(name)
	}

	return newrelic.NewContext(parent, txn), txn
}
