package lvmlib

import (
	"fmt"

	"github.com/unsound/IOLVMPartitionScheme/img"
)

// readAligned reads an arbitrary byte range by expanding it to device block
// boundaries and slicing out the requested window.
func readAligned(hD img.DiskReader, offset int64, length int) ([]byte, error) {
	blockSize := int64(hD.GetBlockSize())
	if blockSize == 0 {
		blockSize = SectorSize
	}

	inset := offset % blockSize
	alignedLen := inset + int64(length)
	if rem := alignedLen % blockSize; rem != 0 {
		alignedLen += blockSize - rem
	}

	data, err := hD.ReadFile(offset-inset, int(alignedLen))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIo, err)
	}
	return data[inset : inset+int64(length)], nil
}
