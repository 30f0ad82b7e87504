//go:build !windows

package img

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type UnixReader struct {
	pathToDisk string
	fd         int
}

func newRawDeviceReader(pathToDisk string) DiskReader {
	return &UnixReader{pathToDisk: pathToDisk}
}

func (unixreader *UnixReader) CreateHandler() error {
	fd, err := unix.Open(unixreader.pathToDisk, unix.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("opening %s: %w", unixreader.pathToDisk, err)
	}
	unixreader.fd = fd
	return nil
}

func (unixreader UnixReader) ReadFile(physicalOffset int64, length int) ([]byte, error) {
	buffer := make([]byte, length)
	pos := 0
	for pos < length {
		n, err := unix.Pread(unixreader.fd, buffer[pos:], physicalOffset+int64(pos))
		if err != nil {
			return nil, fmt.Errorf("reading %s at %d: %w", unixreader.pathToDisk, physicalOffset, err)
		}
		if n == 0 {
			return nil, fmt.Errorf("short read on %s at %d", unixreader.pathToDisk, physicalOffset)
		}
		pos += n
	}

	return buffer, nil
}

func (unixreader UnixReader) CloseHandler() {
	unix.Close(unixreader.fd)
}

func (unixreader UnixReader) GetDiskSize() int64 {
	size, err := unix.Seek(unixreader.fd, 0, unix.SEEK_END)
	if err != nil {
		return 0
	}
	return size
}

func (unixreader UnixReader) GetBlockSize() uint32 {
	return 512
}
