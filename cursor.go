package cassandra

import (
	"encoding/hex"
	"strings"

	"github.com/wikimedia/restbase-cassandra/types"
)

// tokenColumn is the alias under which the partition token of each row is
// selected. The fetcher strips it from rows before they reach the
// consumer and uses it to keep the cursor's token current.
const tokenColumn = "cursor_token"

// buildScanQuery constructs the next page query for a cursor.
//
// The statement always selects the partition token alongside the
// projection. A position predicate is built only when the cursor carries
// no page state; a page state already encodes the exact resume position,
// and binding a predicate alongside it would change the statement the
// state was issued for, truncating or corrupting the continuation on the
// server side. Predicate forms, in order of precedence:
//
//   - page state set: no predicate, the state carries the position
//   - token set: WHERE token(<keys>) = ? bound to the token
//   - domain/key seed set: WHERE token(<keys>) = token(?, ?) bound to
//     (domain, key)
//   - neither: no predicate, the scan starts from the beginning of the
//     ring
//
// Construction is a pure function of its inputs: the same cursor yields
// the same statement and parameters every time.
//
// Parameters:
//   - table: Table to scan
//   - projection: Columns to fetch, passed through verbatim; when empty
//     the partition key columns are selected
//   - keyCols: Partition key column names, in table definition order
//   - cur: Scan position
//
// Returns:
//   - string: CQL statement
//   - []any: Bound parameters
func buildScanQuery(table, projection string, keyCols []string, cur *types.Cursor) (string, []any) {
	tokenExpr := "token(" + strings.Join(keyCols, ", ") + ")"

	if projection == "" {
		projection = strings.Join(keyCols, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(projection)
	sb.WriteString(", ")
	sb.WriteString(tokenExpr)
	sb.WriteString(" AS ")
	sb.WriteString(tokenColumn)
	sb.WriteString(" FROM ")
	sb.WriteString(table)

	switch {
	case len(cur.PageState) > 0:
		// Mid-chain: the page state resumes the running statement.
	case cur.HasToken():
		sb.WriteString(" WHERE ")
		sb.WriteString(tokenExpr)
		sb.WriteString(" = ?")

		return sb.String(), []any{*cur.Token}
	case cur.HasSeed():
		sb.WriteString(" WHERE ")
		sb.WriteString(tokenExpr)
		sb.WriteString(" = token(?, ?)")

		return sb.String(), []any{cur.Domain, cur.Key}
	}

	return sb.String(), nil
}

// cursorStateHex renders an opaque page state for logs.
func cursorStateHex(state []byte) string {
	if len(state) == 0 {
		return "none"
	}

	return hex.EncodeToString(state)
}
