package checkpoint

import (
	"fmt"

	"github.com/tinylib/msgp/msgp"

	"github.com/wikimedia/restbase-cassandra/types"
)

// cursorFields is the fixed field count of the cursor wire format. The
// format is a positional array: hasToken bool, token int64, domain string,
// key string, pageState bin.
const cursorFields = 5

// encodeCursor serializes a cursor to MessagePack.
func encodeCursor(cursor types.Cursor) []byte {
	buf := make([]byte, 0, 64)
	buf = msgp.AppendArrayHeader(buf, cursorFields)

	buf = msgp.AppendBool(buf, cursor.Token != nil)
	if cursor.Token != nil {
		buf = msgp.AppendInt64(buf, *cursor.Token)
	} else {
		buf = msgp.AppendInt64(buf, 0)
	}
	buf = msgp.AppendString(buf, cursor.Domain)
	buf = msgp.AppendString(buf, cursor.Key)
	buf = msgp.AppendBytes(buf, cursor.PageState)

	return buf
}

// decodeCursor deserializes a MessagePack-encoded cursor.
func decodeCursor(data []byte) (types.Cursor, error) {
	size, rest, err := msgp.ReadArrayHeaderBytes(data)
	if err != nil {
		return types.Cursor{}, fmt.Errorf("checkpoint: decode header: %w", err)
	}
	if size != cursorFields {
		return types.Cursor{}, fmt.Errorf("checkpoint: unexpected field count %d", size)
	}

	hasToken, rest, err := msgp.ReadBoolBytes(rest)
	if err != nil {
		return types.Cursor{}, fmt.Errorf("checkpoint: decode hasToken: %w", err)
	}

	token, rest, err := msgp.ReadInt64Bytes(rest)
	if err != nil {
		return types.Cursor{}, fmt.Errorf("checkpoint: decode token: %w", err)
	}

	domain, rest, err := msgp.ReadStringBytes(rest)
	if err != nil {
		return types.Cursor{}, fmt.Errorf("checkpoint: decode domain: %w", err)
	}

	key, rest, err := msgp.ReadStringBytes(rest)
	if err != nil {
		return types.Cursor{}, fmt.Errorf("checkpoint: decode key: %w", err)
	}

	pageState, _, err := msgp.ReadBytesBytes(rest, nil)
	if err != nil {
		return types.Cursor{}, fmt.Errorf("checkpoint: decode pageState: %w", err)
	}

	cursor := types.Cursor{Domain: domain, Key: key}
	if hasToken {
		cursor.Token = &token
	}
	if len(pageState) > 0 {
		cursor.PageState = pageState
	}

	return cursor, nil
}
