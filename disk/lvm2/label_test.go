package lvmlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanForLabelFirstWins(t *testing.T) {
	img := make([]byte, 64*1024)
	writeLabel(img, 1)
	sealLabel(img, 1)
	writeLabel(img, 2)
	putU64(img[2*SectorSize+8:], 2) // self reported sector
	sealLabel(img, 2)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	label, err := ScanForLabel(d)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), label.Sector)
}

func TestScanForLabelSectorMismatch(t *testing.T) {
	img := make([]byte, 64*1024)
	writeLabel(img, 1)
	putU64(img[SectorSize+8:], 3) // claims sector 3 while sitting in sector 1
	sealLabel(img, 1)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	_, err := ScanForLabel(d)
	assert.ErrorIs(t, err, ErrNoLabel)
}

func TestScanForLabelWrongType(t *testing.T) {
	img := make([]byte, 64*1024)
	writeLabel(img, 1)
	copy(img[SectorSize+24:], "LVM2 002")
	sealLabel(img, 1)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	_, err := ScanForLabel(d)
	assert.ErrorIs(t, err, ErrNoLabel)
}

func TestScanForLabelContentOffsetOutOfRange(t *testing.T) {
	for _, offset := range []uint32{16, 512} {
		img := make([]byte, 64*1024)
		writeLabel(img, 1)
		putU32(img[SectorSize+20:], offset)
		sealLabel(img, 1)

		d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
		_, err := ScanForLabel(d)
		assert.ErrorIs(t, err, ErrNoLabel, "content offset %d", offset)
	}
}

// Labels are found on devices with block sizes larger than a sector.
func TestScanForLabelLargeBlockSize(t *testing.T) {
	img := make([]byte, 64*1024)
	writeLabel(img, 1)
	sealLabel(img, 1)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 4096}
	label, err := ScanForLabel(d)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), label.Sector)
}

func TestParsePvHeader(t *testing.T) {
	img := make([]byte, 64*1024)
	writeLabel(img, 1)
	sealLabel(img, 1)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	label, err := ScanForLabel(d)
	require.NoError(t, err)

	pvh, err := ParsePvHeader(label)
	require.NoError(t, err)
	assert.Equal(t, compactUUID, string(pvh.UUID[:]))
	assert.Equal(t, uint64(8<<30), pvh.DeviceSizeXL)
	require.Len(t, pvh.DataAreas, 1)
	assert.Equal(t, DiskLocn{Offset: 1 << 20, Size: 2 << 20}, pvh.DataAreas[0])
	require.Len(t, pvh.MetadataAreas, 1)
	assert.Equal(t, DiskLocn{Offset: mdaOffset, Size: mdaSize}, pvh.MetadataAreas[0])
}

func TestParsePvHeaderAreaMismatch(t *testing.T) {
	img := make([]byte, 64*1024)
	writeLabel(img, 1)
	// wipe the metadata area list, leaving one data area and none of the other
	s := img[SectorSize : 2*SectorSize]
	for i := 104; i < 136; i++ {
		s[i] = 0
	}
	sealLabel(img, 1)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	label, err := ScanForLabel(d)
	require.NoError(t, err)

	_, err = ParsePvHeader(label)
	assert.ErrorIs(t, err, ErrAreaMismatch)
}

func TestParsePvHeaderOverflow(t *testing.T) {
	img := make([]byte, 64*1024)
	writeLabel(img, 1)
	// unterminated area list running into the end of the sector
	s := img[SectorSize : 2*SectorSize]
	for i := 72; i < SectorSize; i++ {
		s[i] = 0xff
	}
	sealLabel(img, 1)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	label, err := ScanForLabel(d)
	require.NoError(t, err)

	_, err = ParsePvHeader(label)
	assert.ErrorIs(t, err, ErrHeaderOverflow)
}

func TestReadMdaHeaderBadMagic(t *testing.T) {
	metadata := metadataText(stripedLv("lv0", stripedSegment(1, 0, 10, 0), 1))
	img := buildImage(metadata)
	img[mdaOffset+4] ^= 0xff
	sealMda(img)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	_, err := ReadMdaHeader(d, DiskLocn{Offset: mdaOffset, Size: mdaSize})
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestReadMdaHeaderBadCrc(t *testing.T) {
	metadata := metadataText(stripedLv("lv0", stripedSegment(1, 0, 10, 0), 1))
	img := buildImage(metadata)
	img[mdaOffset+100] ^= 0xff // not resealed

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	_, err := ReadMdaHeader(d, DiskLocn{Offset: mdaOffset, Size: mdaSize})
	assert.ErrorIs(t, err, ErrBadCrc)
}

func TestReadMdaHeaderSelfMismatch(t *testing.T) {
	metadata := metadataText(stripedLv("lv0", stripedSegment(1, 0, 10, 0), 1))
	img := buildImage(metadata)
	putU64(img[mdaOffset+24:], mdaOffset+512) // wrong self reported start
	sealMda(img)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	_, err := ReadMdaHeader(d, DiskLocn{Offset: mdaOffset, Size: mdaSize})
	assert.ErrorIs(t, err, ErrBadSectorSelf)
}

func TestReadMdaHeaderNoRawLocn(t *testing.T) {
	metadata := metadataText(stripedLv("lv0", stripedSegment(1, 0, 10, 0), 1))
	img := buildImage(metadata)
	for i := mdaOffset + 40; i < mdaOffset+64; i++ {
		img[i] = 0
	}
	sealMda(img)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	_, err := ReadMdaHeader(d, DiskLocn{Offset: mdaOffset, Size: mdaSize})
	assert.ErrorIs(t, err, ErrNoRawLocn)
}

func TestReadMdaHeaderMultipleRawLocns(t *testing.T) {
	metadata := metadataText(stripedLv("lv0", stripedSegment(1, 0, 10, 0), 1))
	img := buildImage(metadata)
	putU64(img[mdaOffset+64:], MdaHeaderSize) // populate raw_locns[1]
	putU64(img[mdaOffset+72:], 100)
	sealMda(img)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	_, err := ReadMdaHeader(d, DiskLocn{Offset: mdaOffset, Size: mdaSize})
	assert.ErrorIs(t, err, ErrMultipleRawLocns)
}

func TestReadMdaHeaderRawLocnOutOfRange(t *testing.T) {
	metadata := metadataText(stripedLv("lv0", stripedSegment(1, 0, 10, 0), 1))
	img := buildImage(metadata)
	putU64(img[mdaOffset+48:], mdaSize) // size larger than the space after offset
	sealMda(img)

	d := &testDevice{data: img, size: int64(len(img)), blockSize: 512}
	_, err := ReadMdaHeader(d, DiskLocn{Offset: mdaOffset, Size: mdaSize})
	assert.ErrorIs(t, err, ErrRawLocnOutOfRange)
}
