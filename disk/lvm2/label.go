package lvmlib

import (
	"fmt"

	"github.com/unsound/IOLVMPartitionScheme/img"
	"github.com/unsound/IOLVMPartitionScheme/logger"
	"github.com/unsound/IOLVMPartitionScheme/utils"
)

// Label is an accepted LVM label: the sector it was found in, its decoded
// header and the buffered sector bytes it lives in.
type Label struct {
	Sector uint64
	Header LabelHeader
	Data   []byte
}

// ScanForLabel searches the first four sectors for a valid label. The first
// sector that passes all checks wins; additional candidates are logged and
// ignored.
func ScanForLabel(hD img.DiskReader) (*Label, error) {
	var label *Label

	for sector := uint64(0); sector < LabelScanSectors; sector++ {
		data, err := readAligned(hD, int64(sector*SectorSize), SectorSize)
		if err != nil {
			return nil, err
		}

		var header LabelHeader
		_, err = utils.Unmarshal(data, &header)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIo, err)
		}

		if string(header.ID[:]) != LabelMagic {
			continue
		}
		if header.SectorXL != sector {
			logger.IOLVMlogger.Warning(fmt.Sprintf(
				"label at sector %d reports sector %d, skipping", sector, header.SectorXL))
			continue
		}
		crc := CalcCRC(InitialCRC, data[crcRangeOffset:SectorSize])
		if crc != header.CrcXL {
			logger.IOLVMlogger.Warning(fmt.Sprintf(
				"label at sector %d checksum mismatch (stored 0x%08x calculated 0x%08x), skipping",
				sector, header.CrcXL, crc))
			continue
		}
		if string(header.Type[:]) != LabelType {
			logger.IOLVMlogger.Warning(fmt.Sprintf(
				"label at sector %d has unknown type %q, skipping", sector, header.Type))
			continue
		}
		if header.OffsetXL < uint32(utils.GetStructSize(LabelHeader{})) ||
			header.OffsetXL >= SectorSize {
			logger.IOLVMlogger.Warning(fmt.Sprintf(
				"label at sector %d has content offset %d outside the sector, skipping",
				sector, header.OffsetXL))
			continue
		}

		if label == nil {
			label = &Label{Sector: sector, Header: header, Data: data}
		} else {
			logger.IOLVMlogger.Warning(fmt.Sprintf(
				"ignoring additional label at sector %d", sector))
		}
	}

	if label == nil {
		return nil, ErrNoLabel
	}
	return label, nil
}

// ParsePvHeader decodes the physical volume header found at the label's
// content offset: compact UUID, device size and the two zero terminated
// disk location lists.
func ParsePvHeader(label *Label) (*PvHeader, error) {
	data := label.Data[label.Header.OffsetXL:]

	var pvh PvHeader
	consumed, err := utils.Unmarshal(data, &pvh)
	if err != nil {
		return nil, ErrHeaderOverflow
	}

	pvh.DataAreas, consumed, err = parseLocnList(data, consumed)
	if err != nil {
		return nil, err
	}
	pvh.MetadataAreas, _, err = parseLocnList(data, consumed)
	if err != nil {
		return nil, err
	}

	if len(pvh.DataAreas) != len(pvh.MetadataAreas) {
		return nil, fmt.Errorf("%w: %d data areas, %d metadata areas",
			ErrAreaMismatch, len(pvh.DataAreas), len(pvh.MetadataAreas))
	}
	return &pvh, nil
}

// parseLocnList walks one zero terminated DiskLocn list, guarding against
// running off the end of the label sector.
func parseLocnList(data []byte, pos int) ([]DiskLocn, int, error) {
	var list []DiskLocn
	locnSize := utils.GetStructSize(DiskLocn{})

	for {
		if pos+locnSize > len(data) {
			return nil, pos, ErrHeaderOverflow
		}
		var locn DiskLocn
		consumed, err := utils.Unmarshal(data[pos:], &locn)
		if err != nil {
			return nil, pos, ErrHeaderOverflow
		}
		pos += consumed

		if locn.Offset == 0 {
			return list, pos, nil
		}
		list = append(list, locn)
	}
}
