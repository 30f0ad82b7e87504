package reporter

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/unsound/IOLVMPartitionScheme/disk"
)

type Reporter struct {
	ShowVolInfo bool
}

func (rp Reporter) Show(volumes disk.Volumes) {
	for idx, volume := range volumes {
		state := "complete"
		if volume.Incomplete {
			state = "incomplete"
		}
		fmt.Printf("Volume %d %s at byte %d length %s (%s)\n",
			idx+1, volume.Name, volume.StartB, humanize.Bytes(volume.LengthB), state)

		if rp.ShowVolInfo {
			fmt.Printf("%s\n", volume.GetInfo())
		}
	}
}
