package layout

// Typed model of one volume group as described by the text metadata.

type VolumeGroupStatus uint32

const (
	VolumeGroupStatusResizeable VolumeGroupStatus = 0x1
	VolumeGroupStatusRead       VolumeGroupStatus = 0x2
	VolumeGroupStatusWrite      VolumeGroupStatus = 0x4
)

var VolumeGroupStatusNames = map[string]VolumeGroupStatus{
	"RESIZEABLE": VolumeGroupStatusResizeable,
	"READ":       VolumeGroupStatusRead,
	"WRITE":      VolumeGroupStatusWrite,
}

type PhysicalVolumeStatus uint32

const (
	PhysicalVolumeStatusAllocatable PhysicalVolumeStatus = 0x1
)

var PhysicalVolumeStatusNames = map[string]PhysicalVolumeStatus{
	"ALLOCATABLE": PhysicalVolumeStatusAllocatable,
}

type LogicalVolumeStatus uint32

const (
	LogicalVolumeStatusRead    LogicalVolumeStatus = 0x1
	LogicalVolumeStatusWrite   LogicalVolumeStatus = 0x2
	LogicalVolumeStatusVisible LogicalVolumeStatus = 0x4
)

var LogicalVolumeStatusNames = map[string]LogicalVolumeStatus{
	"READ":    LogicalVolumeStatusRead,
	"WRITE":   LogicalVolumeStatusWrite,
	"VISIBLE": LogicalVolumeStatusVisible,
}

type PhysicalVolume struct {
	Name    string
	ID      string
	Device  string
	Status  PhysicalVolumeStatus
	Flags   []string
	DevSize uint64 // bytes
	PeStart uint64 // sectors
	PeCount uint64 // extents
}

// PvLocation points into a physical volume of the same volume group,
// in extent units.
type PvLocation struct {
	PvName      string
	ExtentStart uint64
}

type Segment struct {
	StartExtent uint64
	ExtentCount uint64
	Type        string
	StripeCount uint64
	StripeSize  uint64 // sectors
	Stripes     []PvLocation
	MirrorCount uint64
	MirrorLog   string
	RegionSize  uint64 // sectors
	Mirrors     []PvLocation
}

type LogicalVolume struct {
	Name             string
	ID               string
	Status           LogicalVolumeStatus
	Flags            []string
	CreationHost     string
	CreationTime     uint64
	AllocationPolicy string
	SegmentCount     uint64
	Segments         []*Segment
}

type VolumeGroup struct {
	ID              string
	Seqno           uint64
	Format          string
	Status          VolumeGroupStatus
	Flags           []string
	ExtentSize      uint64 // sectors
	MaxLv           uint64
	MaxPv           uint64
	MetadataCopies  uint64
	PhysicalVolumes []*PhysicalVolume
	LogicalVolumes  []*LogicalVolume
}

type Layout struct {
	VgName       string
	Vg           *VolumeGroup
	Contents     string
	Version      uint64
	Description  string
	CreationHost string
	CreationTime uint64
}
