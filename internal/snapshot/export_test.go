package snapshot

var SnapshotTxOptions = snapshotTxOptions
