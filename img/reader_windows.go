//go:build windows

package img

import (
	"fmt"
	"unsafe"

	"github.com/unsound/IOLVMPartitionScheme/utils"
	"golang.org/x/sys/windows"
)

type DISK_GEOMETRY struct {
	Cylinders         int64
	MediaType         int32
	TracksPerCylinder int32
	SectorsPerTrack   int32
	BytesPerSector    int32
}

type WindowsReader struct {
	a_file string
	fd     windows.Handle
}

func newRawDeviceReader(pathToDisk string) DiskReader {
	return &WindowsReader{a_file: pathToDisk}
}

func (winreader *WindowsReader) CreateHandler() error {
	file_ptr, _ := windows.UTF16PtrFromString(winreader.a_file)
	var templateHandle windows.Handle
	fd, err := windows.CreateFile(file_ptr, windows.FILE_READ_DATA,
		windows.FILE_SHARE_READ, nil,
		windows.OPEN_EXISTING, 0, templateHandle)
	if err != nil {
		return fmt.Errorf("opening %s: %w", winreader.a_file, err)
	}
	winreader.fd = fd
	return nil
}

func (winreader WindowsReader) CloseHandler() {
	windows.Close(winreader.fd)
}

func (winreader WindowsReader) geometry() (DISK_GEOMETRY, error) {
	const IOCTL_DISK_GET_DRIVE_GEOMETRY = 0x70000
	const nByte_DISK_GEOMETRY = 24
	disk_geometry := DISK_GEOMETRY{}

	var junk *uint32
	var inBuffer *byte
	err := windows.DeviceIoControl(winreader.fd, IOCTL_DISK_GET_DRIVE_GEOMETRY,
		inBuffer, 0, (*byte)(unsafe.Pointer(&disk_geometry)), nByte_DISK_GEOMETRY, junk, nil)
	return disk_geometry, err
}

func (winreader WindowsReader) GetDiskSize() int64 {
	disk_geometry, err := winreader.geometry()
	if err != nil {
		return 0
	}

	return disk_geometry.Cylinders * int64(disk_geometry.TracksPerCylinder) *
		int64(disk_geometry.SectorsPerTrack) * int64(disk_geometry.BytesPerSector)
}

func (winreader WindowsReader) GetBlockSize() uint32 {
	disk_geometry, err := winreader.geometry()
	if err != nil || disk_geometry.BytesPerSector == 0 {
		return 512
	}
	return uint32(disk_geometry.BytesPerSector)
}

func (winreader WindowsReader) ReadFile(buf_pointer int64, length int) ([]byte, error) {
	buffer := make([]byte, length)

	largeInteger := utils.NewLargeInteger(buf_pointer)
	var bytesRead uint32

	newLowOffset, err := windows.SetFilePointer(winreader.fd, largeInteger.LowPart,
		&largeInteger.HighPart, windows.FILE_BEGIN)
	largeInteger.LowPart = int32(newLowOffset)
	if err != nil {
		return nil, fmt.Errorf("seeking %s to %d: %w", winreader.a_file, buf_pointer, err)
	}

	err = windows.ReadFile(winreader.fd, buffer, &bytesRead, nil)
	if err != nil {
		return nil, fmt.Errorf("reading %s at %d: %w", winreader.a_file, buf_pointer, err)
	}
	if int(bytesRead) < length {
		return nil, fmt.Errorf("short read on %s at %d", winreader.a_file, buf_pointer)
	}
	return buffer, nil
}
