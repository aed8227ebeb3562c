// Package checkpoint provides cursor persistence for resumable scans.
//
// A checkpoint store saves the scanner's cursor after every delivered page
// so an interrupted scan can resume from its last position instead of
// starting over. Stores implement the cassandra.Checkpointer interface:
//
//	type Checkpointer interface {
//	    Save(ctx context.Context, name string, cursor types.Cursor) error
//	    Load(ctx context.Context, name string) (types.Cursor, error)
//	    Close() error
//	}
//
// Available stores:
//
//   - [Memory]: In-process map, for tests and single-run tooling
//   - [NATS]: NATS JetStream key-value bucket, for scans that must survive
//     process restarts
//
// Cursors are serialized with MessagePack.
//
// Example:
//
//	nc, _ := nats.Connect("nats://localhost:4222")
//	js, _ := jetstream.New(nc)
//	kv, _ := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: "scan-cursors"})
//
//	store, _ := checkpoint.NewNATS(kv)
//	scanner, _ := cassandra.NewScanner(provider,
//	    cassandra.WithCheckpointer(store),
//	)
//
//	// On a later run, resume from the saved position.
//	cur, err := store.Load(ctx, "data")
//	if errors.Is(err, types.ErrCheckpointNotFound) {
//	    cur = *cassandra.NewCursor()
//	}
package checkpoint
