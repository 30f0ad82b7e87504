package filters

import "github.com/unsound/IOLVMPartitionScheme/disk"

type Filter interface {
	Execute(volumes disk.Volumes) disk.Volumes
}

type NameFilter struct {
	Names []string
}

func (nameFilter NameFilter) Execute(volumes disk.Volumes) disk.Volumes {
	return volumes.FilterByNames(nameFilter.Names)
}

type IncompleteFilter struct {
	Include bool
}

func (incompleteFilter IncompleteFilter) Execute(volumes disk.Volumes) disk.Volumes {
	if !incompleteFilter.Include {
		return volumes.FilterOutIncomplete()
	}
	return volumes
}
