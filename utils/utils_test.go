package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleHeader struct {
	Magic   [4]byte
	Flags   uint16
	Count   uint32
	Offset  uint64
	Ignored []byte
}

func TestUnmarshal(t *testing.T) {
	data := []byte{
		'T', 'E', 'S', 'T',
		0x01, 0x02,
		0x04, 0x03, 0x02, 0x01,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}

	var header sampleHeader
	consumed, err := Unmarshal(data, &header)
	require.NoError(t, err)
	assert.Equal(t, 18, consumed)
	assert.Equal(t, "TEST", string(header.Magic[:]))
	assert.Equal(t, uint16(0x0201), header.Flags)
	assert.Equal(t, uint32(0x01020304), header.Count)
	assert.Equal(t, uint64(0x0102030405060708), header.Offset)
}

func TestUnmarshalShortData(t *testing.T) {
	var header sampleHeader
	_, err := Unmarshal([]byte{'T', 'E'}, &header)
	assert.Error(t, err)
}

func TestGetStructSize(t *testing.T) {
	assert.Equal(t, 18, GetStructSize(sampleHeader{}))
	assert.Equal(t, 18, GetStructSize(&sampleHeader{}))
}

func TestNewLargeInteger(t *testing.T) {
	li := NewLargeInteger(0x0000000200000001)
	assert.Equal(t, int32(1), li.LowPart)
	assert.Equal(t, int32(2), li.HighPart)
}

func TestHexify(t *testing.T) {
	assert.Equal(t, "0a0b", Hexify([]byte{0x0a, 0x0b}))
	assert.Equal(t, "0b0a", Hexify(Bytereverse([]byte{0x0a, 0x0b})))
}
