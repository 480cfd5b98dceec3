package gatt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID16(t *testing.T) {
	if want, got := (UUID{[]byte{0x18, 0x00}}), UUID16(0x1800); !got.Equal(want) {
		t.Errorf("UUID16: got %x, want %x", got, want)
	}
}

func TestParseUUID(t *testing.T) {
	cases := []struct {
		in   string
		len  int
		want string
	}{
		{in: "1800", len: 2, want: "1800"},
		{in: "2a37", len: 2, want: "2A37"},
		{in: "09fc95c0-c111-11e3-9904-0002a5d5c51b", len: 16, want: "09FC95C0-C111-11E3-9904-0002A5D5C51B"},
		{in: "34DA3AD1-7110-41A1-B1EF-4430F509CDE7", len: 16, want: "34DA3AD1-7110-41A1-B1EF-4430F509CDE7"},
	}
	for _, tt := range cases {
		u, err := ParseUUID(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.len, u.Len(), tt.in)
		assert.Equal(t, tt.want, u.String(), tt.in)

		back, err := ParseUUID(u.String())
		require.NoError(t, err)
		assert.True(t, back.Equal(u), "round trip of %s", tt.in)
	}
}

func TestParseUUIDErrors(t *testing.T) {
	for _, in := range []string{"", "18", "zz00", "09fc95c0-c111-11e3-9904"} {
		_, err := ParseUUID(in)
		assert.Error(t, err, "%q", in)
	}
	assert.Panics(t, func() { MustParseUUID("nope") })
}

func TestUUIDZero(t *testing.T) {
	var u UUID
	assert.True(t, u.IsZero())
	assert.False(t, UUID16(0x2902).IsZero())
	assert.True(t, u.Equal(UUID{}))
	assert.False(t, u.Equal(ClientCharacteristicConfigUUID))
}
