package types

import (
	"encoding/hex"
	"strconv"
)

// Cursor is the serializable position of one logical scan.
//
// Exactly one of {Token set, Domain+Key set, all absent} determines how
// the next page query is constructed; a set Token always takes precedence
// over the Domain/Key seed.
//
// A Cursor is created once per scan by the caller (possibly restored from
// a checkpoint) and from then on owned and mutated exclusively by the
// scanner driving that scan. It is an explicit snapshot value: persist it
// after any page to resume the scan later from the same position.
type Cursor struct {
	// Token is the partition token to continue from, nil at scan start.
	Token *int64

	// Domain and Key optionally seed the initial token via the backend's
	// token() hashing. They are consulted only while Token is nil.
	Domain string
	Key    string

	// PageState is the opaque continuation handle returned by the backend
	// after a page read. Empty at scan start and after any token
	// skip-forward.
	PageState []byte
}

// NewCursor returns an empty cursor that scans a table from the beginning.
func NewCursor() *Cursor {
	return &Cursor{}
}

// NewTokenCursor returns a cursor positioned at the given partition token.
//
// Parameters:
//   - token: Partition token to continue the scan from
//
// Returns:
//   - *Cursor: A cursor with the token set and no page state
func NewTokenCursor(token int64) *Cursor {
	return &Cursor{Token: &token}
}

// NewSeedCursor returns a cursor whose initial token is derived from the
// given domain and key via the backend's token() hashing.
//
// Parameters:
//   - domain: Partition key domain component
//   - key: Partition key component
//
// Returns:
//   - *Cursor: A cursor seeded with domain/key and no token
func NewSeedCursor(domain, key string) *Cursor {
	return &Cursor{Domain: domain, Key: key}
}

// HasToken reports whether the cursor has an established partition token.
func (c *Cursor) HasToken() bool {
	return c.Token != nil
}

// HasSeed reports whether the cursor carries a domain/key seed.
func (c *Cursor) HasSeed() bool {
	return c.Domain != "" || c.Key != ""
}

// SkipForward advances the token by stride and clears the page state.
//
// This is the page fetcher's stuck-partition escape: rows in the skipped
// range are permanently lost from the scan. It must only be called when
// HasToken reports true.
//
// Parameters:
//   - stride: Amount to add to the token, in the token's integer space
func (c *Cursor) SkipForward(stride int64) {
	if c.Token == nil {
		return
	}

	next := *c.Token + stride
	c.Token = &next
	c.PageState = nil
}

// Clone returns a deep copy of the cursor.
//
// The multi-table scanner hands each fan-out fetch its own clone so that
// the shared cursor is mutated by a single goroutine only.
func (c *Cursor) Clone() Cursor {
	out := Cursor{Domain: c.Domain, Key: c.Key}
	if c.Token != nil {
		token := *c.Token
		out.Token = &token
	}
	if len(c.PageState) > 0 {
		out.PageState = append([]byte(nil), c.PageState...)
	}

	return out
}

// String renders the cursor position for logs and error messages.
func (c *Cursor) String() string {
	s := "token="
	if c.Token != nil {
		s += strconv.FormatInt(*c.Token, 10)
	} else {
		s += "none"
	}
	if c.HasSeed() {
		s += " seed=" + c.Domain + "/" + c.Key
	}
	s += " pageState="
	if len(c.PageState) > 0 {
		s += hex.EncodeToString(c.PageState)
	} else {
		s += "none"
	}

	return s
}
