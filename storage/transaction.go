package storage

import bolt "go.etcd.io/bbolt"

type Transaction interface {
	Commit() error
	Rollback() error
}

type BoltDbTransactionWrapper struct {
	BoltTx *bolt.Tx
}

// Commit commits a writable transaction. Read-only transactions have nothing
// to commit and are released instead.
func (b *BoltDbTransactionWrapper) Commit() error {
	if b.BoltTx.Writable() {
		return b.BoltTx.Commit()
	}
	return b.BoltTx.Rollback()
}

func (b *BoltDbTransactionWrapper) Rollback() error {
	return b.BoltTx.Rollback()
}
