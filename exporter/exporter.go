package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/unsound/IOLVMPartitionScheme/disk"
	"github.com/unsound/IOLVMPartitionScheme/img"
	"github.com/unsound/IOLVMPartitionScheme/logger"
)

const chunkSizeB = 1024 * 1024

type Exporter struct {
	Location string
}

// ExportVolumes copies each volume's byte range off the device into a file
// named after the logical volume.
func (exp Exporter) ExportVolumes(hD img.DiskReader, volumes disk.Volumes) {
	err := os.MkdirAll(exp.Location, 0755)
	if err != nil {
		fmt.Printf("ERROR %s\n", err)
		return
	}

	for _, volume := range volumes {
		err := exp.exportVolume(hD, volume)
		if err != nil {
			msg := fmt.Sprintf("exporting %s: %s", volume.Name, err)
			fmt.Printf("ERROR %s\n", msg)
			logger.IOLVMlogger.Error(msg)
			continue
		}
		fmt.Printf("exported volume %s\n", volume.Name)
	}
}

func (exp Exporter) exportVolume(hD img.DiskReader, volume disk.Volume) error {
	outfile, err := os.Create(filepath.Join(exp.Location, volume.Name+".bin"))
	if err != nil {
		return err
	}
	defer outfile.Close()

	remaining := volume.LengthB
	offset := volume.StartB
	for remaining > 0 {
		length := uint64(chunkSizeB)
		if remaining < length {
			length = remaining
		}
		data, err := hD.ReadFile(int64(offset), int(length))
		if err != nil {
			return err
		}
		if _, err := outfile.Write(data); err != nil {
			return err
		}
		offset += length
		remaining -= length
	}
	return nil
}
