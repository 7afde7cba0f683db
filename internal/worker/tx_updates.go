package worker

import (
	"gonadarena/internal/api/ws"
	"gonadarena/internal/txn"
)

type TxSource interface {
	Subscribe(fn func(txn.Tx))
}

// PublishTxUpdates forwards every tracker transition to websocket clients.
func PublishTxUpdates(tracker TxSource, hub Broadcaster) {
	tracker.Subscribe(func(tx txn.Tx) {
		hub.Broadcast(ws.TypeTxUpdate, tx)
	})
}
