package lvmlib

import (
	"fmt"

	"github.com/unsound/IOLVMPartitionScheme/img"
	"github.com/unsound/IOLVMPartitionScheme/utils"
)

// ReadMdaHeader reads and validates the metadata area header a disk location
// points at. Any error it returns concerns this area only; the caller moves
// on to the next one.
func ReadMdaHeader(hD img.DiskReader, metaLocn DiskLocn) (*MdaHeader, error) {
	data, err := readAligned(hD, int64(metaLocn.Offset), MdaHeaderSize)
	if err != nil {
		return nil, err
	}

	var mda MdaHeader
	consumed, err := utils.Unmarshal(data, &mda)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIo, err)
	}

	crc := CalcCRC(InitialCRC, data[mdaCrcRangeOffset:MdaHeaderSize])
	if crc != mda.ChecksumXL {
		return nil, fmt.Errorf("%w: mda header at %d (stored 0x%08x calculated 0x%08x)",
			ErrBadCrc, metaLocn.Offset, mda.ChecksumXL, crc)
	}
	if string(mda.Magic[:]) != MdaMagic {
		return nil, fmt.Errorf("%w: mda header at %d", ErrBadMagic, metaLocn.Offset)
	}
	if mda.Version != 1 {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedMdaVersion, mda.Version)
	}
	if mda.Start != metaLocn.Offset || mda.Size != metaLocn.Size {
		return nil, fmt.Errorf("%w: mda header at %d describes start %d size %d",
			ErrBadSectorSelf, metaLocn.Offset, mda.Start, mda.Size)
	}

	// The header carries a zero terminated raw location list. Only the
	// first slot may be active; a populated second slot is a configuration
	// this decoder does not support.
	locnSize := utils.GetStructSize(RawLocn{})
	var first, second RawLocn
	if _, err := utils.Unmarshal(data[consumed:consumed+locnSize], &first); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIo, err)
	}
	if _, err := utils.Unmarshal(data[consumed+locnSize:consumed+2*locnSize], &second); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIo, err)
	}

	if rawLocnIsNull(first) {
		return nil, fmt.Errorf("%w: mda header at %d", ErrNoRawLocn, metaLocn.Offset)
	}
	if !rawLocnIsNull(second) {
		return nil, fmt.Errorf("%w: mda header at %d", ErrMultipleRawLocns, metaLocn.Offset)
	}
	if first.Offset >= metaLocn.Size || first.Size > metaLocn.Size-first.Offset {
		return nil, fmt.Errorf("%w: offset %d size %d in area of %d bytes",
			ErrRawLocnOutOfRange, first.Offset, first.Size, metaLocn.Size)
	}

	mda.RawLocns = append(mda.RawLocns, first)
	return &mda, nil
}

func rawLocnIsNull(locn RawLocn) bool {
	return locn.Offset == 0 && locn.Size == 0 && locn.Checksum == 0 && locn.Filler == 0
}
