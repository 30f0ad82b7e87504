package filtermanager

import (
	"github.com/unsound/IOLVMPartitionScheme/disk"
	"github.com/unsound/IOLVMPartitionScheme/filters"
)

type FilterManager struct {
	filters []filters.Filter
}

func (filterManager *FilterManager) Register(filter filters.Filter) {
	filterManager.filters = append(filterManager.filters, filter)
}

func (filterManager FilterManager) ApplyFilters(volumes disk.Volumes) disk.Volumes {
	for _, filter := range filterManager.filters {
		volumes = filter.Execute(volumes)
	}
	return volumes
}
