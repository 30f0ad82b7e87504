package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	EWFLogger "github.com/aarsakian/EWF_Reader/logger"
	VMDKLogger "github.com/aarsakian/VMDK_Reader/logger"

	"github.com/unsound/IOLVMPartitionScheme/disk"
	"github.com/unsound/IOLVMPartitionScheme/exporter"
	"github.com/unsound/IOLVMPartitionScheme/filtermanager"
	"github.com/unsound/IOLVMPartitionScheme/filters"
	IOLVMLogger "github.com/unsound/IOLVMPartitionScheme/logger"
	"github.com/unsound/IOLVMPartitionScheme/reporter"
)

func main() {
	evidencefile := flag.String("evidence", "", "path to image file (EWF formats are supported)")
	vmdkfile := flag.String("vmdk", "", "path to vmdk file (Sparse formats are supported)")
	physicalDrive := flag.Int("physicaldrive", -1, "select disk drive number (windows)")
	devicepath := flag.String("device", "", "path to a raw block device e.g. /dev/sdb")

	listvolumes := flag.Bool("listvolumes", false, "list the logical volumes of the device")
	volinfo := flag.Bool("volinfo", false, "show volume information")
	selectedVolumes := flag.String("volumes", "", "select particular volumes by name, use comma as a seperator.")
	showIncomplete := flag.Bool("showincomplete", true, "include volumes not fully resident on this device")

	export := flag.Bool("export", false, "export the selected volumes")
	location := flag.String("location", "", "the path to export volumes")

	logactive := flag.Bool("log", false, "enable logging")

	flag.Parse() //ready to parse

	if *evidencefile == "" && *vmdkfile == "" && *physicalDrive == -1 && *devicepath == "" {
		log.Fatalln("select a device with -evidence, -vmdk, -physicaldrive or -device")
	}

	if *logactive {
		now := time.Now()
		logfilename := "logs" + now.Format("2006-01-02T15_04_05") + ".txt"
		IOLVMLogger.InitializeLogger(*logactive, logfilename)
		EWFLogger.InitializeLogger(*logactive, logfilename)
		VMDKLogger.InitializeLogger(*logactive, logfilename)
	}

	physicalDisk := new(disk.Disk)
	err := physicalDisk.Initialize(*evidencefile, *physicalDrive, *vmdkfile, *devicepath)
	if err != nil {
		log.Fatalln(err)
	}
	defer physicalDisk.Close()

	err = physicalDisk.DiscoverVolumes()
	if err != nil {
		log.Fatalln(err)
	}

	filterMngr := filtermanager.FilterManager{}
	if *selectedVolumes != "" {
		filterMngr.Register(filters.NameFilter{Names: strings.Split(*selectedVolumes, ",")})
	}
	filterMngr.Register(filters.IncompleteFilter{Include: *showIncomplete})

	volumes := filterMngr.ApplyFilters(physicalDisk.Volumes)

	if *listvolumes || *volinfo {
		rp := reporter.Reporter{ShowVolInfo: *volinfo}
		rp.Show(volumes)
	}

	if *export {
		if *location == "" {
			fmt.Printf("use -location to set the export path\n")
			return
		}
		exp := exporter.Exporter{Location: *location}
		exp.ExportVolumes(physicalDisk.Handler, volumes)
	}
}
