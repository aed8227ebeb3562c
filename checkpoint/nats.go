package checkpoint

import (
	"context"
	"errors"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/wikimedia/restbase-cassandra/types"
)

// NATS persists cursors in a NATS JetStream key-value bucket.
//
// Each checkpoint name maps to one KV key; saves overwrite the previous
// revision, so the bucket always holds the latest position per scan.
// Checkpoints survive process restarts as long as the bucket does.
type NATS struct {
	kv     jetstream.KeyValue
	prefix string
}

// NATSOption configures a NATS checkpoint store.
type NATSOption func(*NATS)

// WithKeyPrefix sets a prefix prepended to every checkpoint key, to share
// one bucket between unrelated scans.
//
// Parameters:
//   - prefix: Key prefix, joined to the name with a dot
//
// Returns:
//   - NATSOption: Configuration option
func WithKeyPrefix(prefix string) NATSOption {
	return func(n *NATS) {
		n.prefix = prefix
	}
}

// NewNATS creates a checkpoint store backed by a JetStream KV bucket.
//
// Parameters:
//   - kv: A NATS JetStream KeyValue store
//   - opts: Optional configuration options
//
// Returns:
//   - *NATS: A new store
//   - error: Error if kv is nil
//
// Example:
//
//	nc, _ := nats.Connect("nats://localhost:4222")
//	js, _ := jetstream.New(nc)
//	kv, _ := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: "scan-cursors"})
//
//	store, _ := checkpoint.NewNATS(kv, checkpoint.WithKeyPrefix("dumps"))
func NewNATS(kv jetstream.KeyValue, opts ...NATSOption) (*NATS, error) {
	if kv == nil {
		return nil, errors.New("checkpoint: KeyValue store is nil")
	}

	n := &NATS{kv: kv}
	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

// Save persists the cursor under the given name, replacing any previous
// checkpoint.
func (n *NATS) Save(ctx context.Context, name string, cursor types.Cursor) error {
	_, err := n.kv.Put(ctx, n.key(name), encodeCursor(cursor))
	if err != nil {
		return err
	}

	return nil
}

// Load retrieves the latest cursor saved under the given name.
func (n *NATS) Load(ctx context.Context, name string) (types.Cursor, error) {
	entry, err := n.kv.Get(ctx, n.key(name))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return types.Cursor{}, types.ErrCheckpointNotFound
		}

		return types.Cursor{}, err
	}

	return decodeCursor(entry.Value())
}

// Close is a no-op; the underlying NATS connection is owned by the caller.
func (n *NATS) Close() error {
	return nil
}

// key maps a checkpoint name onto a valid KV key. Characters outside the
// KV key alphabet (such as the commas of a joined table list) are
// replaced with underscores.
func (n *NATS) key(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_' || r == '-' || r == '.' || r == '/' || r == '=':
			return r
		}

		return '_'
	}, name)

	if n.prefix == "" {
		return sanitized
	}

	return n.prefix + "." + sanitized
}
