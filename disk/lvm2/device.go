package lvmlib

import (
	"fmt"

	layoutLib "github.com/unsound/IOLVMPartitionScheme/disk/lvm2/layout"
	textLib "github.com/unsound/IOLVMPartitionScheme/disk/lvm2/text"
	"github.com/unsound/IOLVMPartitionScheme/img"
	"github.com/unsound/IOLVMPartitionScheme/logger"
)

// VolumeCallback receives one discovered byte range of a logical volume.
// Returning false stops the enumeration cleanly.
type VolumeCallback func(deviceSize uint64, name string, start uint64,
	length uint64, incomplete bool) bool

// ReadText reads the active text metadata out of a metadata area, parses it
// and builds the typed layout.
func ReadText(hD img.DiskReader, mdaOffset uint64, mdaSize uint64,
	locn *RawLocn) (*layoutLib.Layout, error) {

	if locn.Offset >= mdaSize || locn.Size > mdaSize-locn.Offset {
		return nil, fmt.Errorf("%w: offset %d size %d in area of %d bytes",
			ErrRawLocnOutOfRange, locn.Offset, locn.Size, mdaSize)
	}

	data, err := readAligned(hD, int64(mdaOffset+locn.Offset), int(locn.Size))
	if err != nil {
		return nil, err
	}

	root, err := textLib.ParseText(data)
	if err != nil {
		return nil, err
	}
	return layoutLib.FromDOM(root)
}

// ParseDevice runs the full pipeline on one device: label scan, PV header,
// metadata areas, text metadata, extent resolution, volume callbacks.
//
// Failures confined to one metadata area make the scan move to the next
// area; failures in the chosen text metadata are final for the device.
func ParseDevice(hD img.DiskReader, callback VolumeCallback) error {
	blockSize := uint64(hD.GetBlockSize())
	if blockSize == 0 {
		blockSize = SectorSize
	}
	if blockSize != SectorSize {
		logger.IOLVMlogger.Warning(fmt.Sprintf(
			"device block size %d is not %d, extent math follows the device",
			blockSize, SectorSize))
	}

	label, err := ScanForLabel(hD)
	if err != nil {
		return err
	}
	logger.IOLVMlogger.Info(fmt.Sprintf("found LVM label at sector %d", label.Sector))

	pvh, err := ParsePvHeader(label)
	if err != nil {
		return err
	}

	if len(pvh.MetadataAreas) == 0 {
		return fmt.Errorf("%w: device has no metadata areas", ErrNoRawLocn)
	}

	var areaErr error
	for _, metaLocn := range pvh.MetadataAreas {
		mda, err := ReadMdaHeader(hD, metaLocn)
		if err != nil {
			logger.IOLVMlogger.Warning(fmt.Sprintf(
				"skipping metadata area at %d: %v", metaLocn.Offset, err))
			areaErr = err
			continue
		}

		layout, err := ReadText(hD, metaLocn.Offset, metaLocn.Size, &mda.RawLocns[0])
		if err != nil {
			return err
		}

		return resolveVolumes(hD, pvh, layout, blockSize, callback)
	}

	return areaErr
}

// matchPhysicalVolume finds the textual physical volume whose id, with the
// dash separators removed, equals the compact on disk UUID.
func matchPhysicalVolume(vg *layoutLib.VolumeGroup, uuid [32]byte) *layoutLib.PhysicalVolume {
	for _, pv := range vg.PhysicalVolumes {
		if stripDashes(pv.ID) == string(uuid[:]) {
			return pv
		}
	}
	return nil
}

func stripDashes(id string) string {
	stripped := make([]byte, 0, IDLen)
	for i := 0; i < len(id); i++ {
		if id[i] != '-' {
			stripped = append(stripped, id[i])
		}
	}
	return string(stripped)
}

// findLocation picks the location referring to the given physical volume.
func findLocation(locations []layoutLib.PvLocation, pvName string) *layoutLib.PvLocation {
	for i := range locations {
		if locations[i].PvName == pvName {
			return &locations[i]
		}
	}
	return nil
}

func resolveVolumes(hD img.DiskReader, pvh *PvHeader, layout *layoutLib.Layout,
	blockSize uint64, callback VolumeCallback) error {

	vg := layout.Vg

	pv := matchPhysicalVolume(vg, pvh.UUID)
	if pv == nil {
		return fmt.Errorf("%w: volume group %q", ErrNoPvMatch, layout.VgName)
	}

	deviceSize := uint64(hD.GetDiskSize())
	if deviceSize == 0 {
		deviceSize = pvh.DeviceSizeXL
	}

	for _, lv := range vg.LogicalVolumes {
		for _, segment := range lv.Segments {
			location := findLocation(segment.Stripes, pv.Name)
			if location == nil {
				location = findLocation(segment.Mirrors, pv.Name)
			}
			if location == nil {
				// this segment lives on another physical volume
				continue
			}

			incomplete := (len(segment.Stripes) > 0 && len(segment.Mirrors) > 0) ||
				len(segment.Stripes) > 1 || len(segment.Mirrors) > 1
			if incomplete {
				logger.IOLVMlogger.Warning(fmt.Sprintf(
					"logical volume %q segments span physical volumes, reporting incomplete",
					lv.Name))
			}

			start := (pv.PeStart + location.ExtentStart*vg.ExtentSize) * blockSize
			length := segment.ExtentCount * vg.ExtentSize * blockSize

			if start >= deviceSize {
				length = 0
			} else if start+length > deviceSize {
				length = deviceSize - start
			}

			if !callback(deviceSize, lv.Name, start, length, incomplete) {
				return nil
			}
		}
	}

	return nil
}
