package gatt

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// A UUID is a BLE UUID. Bytes are stored big-endian, the way they are
// written; 16-bit UUIDs are kept in their short form.
type UUID struct {
	// Hide the bytes, so that we can enforce that they have length 2 or 16,
	// and that they are immutable. This simplifies the code and API.
	b []byte
}

// UUID16 converts a uint16 (such as 0x1800) to a UUID.
func UUID16(i uint16) UUID {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, i)
	return UUID{b}
}

// ParseUUID parses a standard-format UUID string, such
// as "1800" or "34DA3AD1-7110-41A1-B1EF-4430F509CDE7".
func ParseUUID(s string) (UUID, error) {
	if len(s) == 4 {
		b, err := hex.DecodeString(s)
		if err != nil {
			return UUID{}, fmt.Errorf("gatt: invalid uuid %q: %w", s, err)
		}
		return UUID{b}, nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("gatt: invalid uuid %q: %w", s, err)
	}
	b := make([]byte, 16)
	copy(b, u[:])
	return UUID{b}, nil
}

// MustParseUUID parses a standard-format UUID string,
// like ParseUUID, but panics in case of error.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Len returns the length of the UUID, in bytes.
// BLE UUIDs are either 2 or 16 bytes.
func (u UUID) Len() int { return len(u.b) }

// IsZero reports whether u was never set.
func (u UUID) IsZero() bool { return len(u.b) == 0 }

// String hex-encodes a UUID.
func (u UUID) String() string {
	if len(u.b) != 16 {
		return strings.ToUpper(hex.EncodeToString(u.b))
	}
	var id uuid.UUID
	copy(id[:], u.b)
	return strings.ToUpper(id.String())
}

// Equal returns a boolean reporting whether v represent the same UUID as u.
func (u UUID) Equal(v UUID) bool { return bytes.Equal(u.b, v.b) }
