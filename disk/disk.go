package disk

import (
	"encoding/json"
	"errors"
	"fmt"

	lvmlib "github.com/unsound/IOLVMPartitionScheme/disk/lvm2"
	"github.com/unsound/IOLVMPartitionScheme/img"
	"github.com/unsound/IOLVMPartitionScheme/logger"
)

// Volume is one discovered logical volume byte range on the scanned device.
type Volume struct {
	Name        string
	StartB      uint64
	LengthB     uint64
	DeviceSizeB uint64
	Incomplete  bool
}

type Volumes []Volume

func (volumes Volumes) FilterByNames(names []string) Volumes {
	var filtered Volumes
	for _, volume := range volumes {
		for _, name := range names {
			if volume.Name == name {
				filtered = append(filtered, volume)
				break
			}
		}
	}
	return filtered
}

func (volumes Volumes) FilterOutIncomplete() Volumes {
	var filtered Volumes
	for _, volume := range volumes {
		if !volume.Incomplete {
			filtered = append(filtered, volume)
		}
	}
	return filtered
}

func (volume Volume) GetInfo() string {
	prettyJson, err := json.MarshalIndent(volume, "", " ")
	if err != nil {
		return ""
	}
	return string(prettyJson)
}

type Disk struct {
	Handler img.DiskReader
	Volumes Volumes
}

func (disk *Disk) Initialize(evidencefile string, physicaldrive int,
	vmdkfile string, devicepath string) error {
	var hD img.DiskReader
	var err error
	if evidencefile != "" {

		hD, err = img.GetHandler(evidencefile, "ewf")

	} else if vmdkfile != "" {

		hD, err = img.GetHandler(vmdkfile, "vmdk")

	} else if physicaldrive != -1 {

		hD, err = img.GetHandler(fmt.Sprintf("\\\\.\\PHYSICALDRIVE%d", physicaldrive), "physicalDrive")

	} else {

		hD, err = img.GetHandler(devicepath, "device")

	}
	if err != nil {
		return err
	}
	disk.Handler = hD
	return nil
}

func (disk Disk) Close() {
	disk.Handler.CloseHandler()
}

// DiscoverVolumes scans the device for an LVM2 layout and collects every
// logical volume byte range residing on it.
func (disk *Disk) DiscoverVolumes() error {
	err := lvmlib.ParseDevice(disk.Handler,
		func(deviceSize uint64, name string, start uint64, length uint64, incomplete bool) bool {
			disk.Volumes = append(disk.Volumes, Volume{
				Name:        name,
				StartB:      start,
				LengthB:     length,
				DeviceSizeB: deviceSize,
				Incomplete:  incomplete,
			})
			logger.IOLVMlogger.Info(fmt.Sprintf(
				"volume %s at %d length %d", name, start, length))
			return true
		})

	if errors.Is(err, lvmlib.ErrNoLabel) {
		msg := "Not an LVM2 volume."
		fmt.Printf("%s\n", msg)
		logger.IOLVMlogger.Warning(msg)
		return nil
	}
	return err
}
