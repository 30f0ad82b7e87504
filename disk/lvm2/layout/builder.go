package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/unsound/IOLVMPartitionScheme/disk/lvm2/text"
)

var (
	ErrUnknownKey     = errors.New("unknown key in metadata")
	ErrDuplicateKey   = errors.New("duplicate key in metadata")
	ErrMissingField   = errors.New("missing required field")
	ErrUnknownStatus  = errors.New("unknown status value")
	ErrOverflow       = errors.New("unsigned integer overflow")
	ErrSegmentOrder   = errors.New("segment order violation")
	ErrFormatMismatch = errors.New("unsupported volume group format")
)

const VolumeGroupFormat = "lvm2"

// fieldSpec describes one recognized key of a section: whether it must be
// present and how its payload is absorbed into the model.
type fieldSpec struct {
	required bool
	parse    func(node text.Node) error
}

// buildSection matches every child of a section against the field table.
// Children the table does not know are offered to fallback (segmentN
// sections, the volume group section); duplicates and unknown keys are
// rejected, missing required keys are reported together.
func buildSection(section *text.Section, specs map[string]*fieldSpec,
	fallback func(node text.Node) (bool, error)) error {

	seen := make(map[string]bool)
	for _, child := range section.Children {
		name := child.NodeName()
		spec, known := specs[name]
		if !known {
			if fallback != nil {
				handled, err := fallback(child)
				if err != nil {
					return err
				}
				if handled {
					continue
				}
			}
			return fmt.Errorf("%w: %q in section %q", ErrUnknownKey, name, section.Name)
		}
		if seen[name] {
			return fmt.Errorf("%w: %q in section %q", ErrDuplicateKey, name, section.Name)
		}
		seen[name] = true

		if err := spec.parse(child); err != nil {
			return err
		}
	}

	var missing []string
	for name, spec := range specs {
		if spec.required && !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s in section %q",
			ErrMissingField, strings.Join(missing, ", "), section.Name)
	}
	return nil
}

func scalarPayload(node text.Node) (string, error) {
	value, ok := node.(*text.Value)
	if !ok {
		return "", fmt.Errorf("%w: key %q must carry a scalar value",
			text.ErrSyntax, node.NodeName())
	}
	return value.Value, nil
}

func arrayPayload(node text.Node) ([]string, error) {
	array, ok := node.(*text.Array)
	if !ok {
		return nil, fmt.Errorf("%w: key %q must carry an array value",
			text.ErrSyntax, node.NodeName())
	}
	return array.Elements, nil
}

func sectionPayload(node text.Node) (*text.Section, error) {
	section, ok := node.(*text.Section)
	if !ok {
		return nil, fmt.Errorf("%w: key %q must be a section",
			text.ErrSyntax, node.NodeName())
	}
	return section, nil
}

// parseUint64 converts a decimal payload, at most 19 digits, checking
// overflow against 2^64-1.
func parseUint64(s string) (uint64, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("%w: empty unsigned integer", text.ErrSyntax)
	}
	if len(s) > 19 {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	var val uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: invalid unsigned integer %q", text.ErrSyntax, s)
		}
		digit := uint64(c - '0')
		if val > (^uint64(0)-digit)/10 {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
		}
		val = val*10 + digit
	}
	return val, nil
}

func scalarUint(node text.Node, out *uint64) error {
	payload, err := scalarPayload(node)
	if err != nil {
		return err
	}
	val, err := parseUint64(payload)
	if err != nil {
		return err
	}
	*out = val
	return nil
}

func scalarString(node text.Node, out *string) error {
	payload, err := scalarPayload(node)
	if err != nil {
		return err
	}
	*out = payload
	return nil
}

func flagsArray(node text.Node, out *[]string) error {
	elements, err := arrayPayload(node)
	if err != nil {
		return err
	}
	*out = elements
	return nil
}

// locationsArray converts a flat ["pv0", 0, "pv1", 10] array into PvLocations.
func locationsArray(node text.Node, out *[]PvLocation) error {
	elements, err := arrayPayload(node)
	if err != nil {
		return err
	}
	if len(elements)%2 != 0 {
		return fmt.Errorf("%w: %q must hold name and extent pairs",
			text.ErrSyntax, node.NodeName())
	}
	locations := make([]PvLocation, 0, len(elements)/2)
	for i := 0; i < len(elements); i += 2 {
		extentStart, err := parseUint64(elements[i+1])
		if err != nil {
			return err
		}
		locations = append(locations, PvLocation{
			PvName:      elements[i],
			ExtentStart: extentStart,
		})
	}
	*out = locations
	return nil
}

// FromDOM converts a parsed metadata document into the typed layout. The
// document must hold exactly one top level section, the volume group.
func FromDOM(root *text.Section) (*Layout, error) {
	layout := &Layout{}

	specs := map[string]*fieldSpec{
		"contents":      {parse: func(n text.Node) error { return scalarString(n, &layout.Contents) }},
		"version":       {parse: func(n text.Node) error { return scalarUint(n, &layout.Version) }},
		"description":   {parse: func(n text.Node) error { return scalarString(n, &layout.Description) }},
		"creation_host": {parse: func(n text.Node) error { return scalarString(n, &layout.CreationHost) }},
		"creation_time": {parse: func(n text.Node) error { return scalarUint(n, &layout.CreationTime) }},
	}
	fallback := func(node text.Node) (bool, error) {
		section, ok := node.(*text.Section)
		if !ok {
			return false, nil
		}
		if layout.Vg != nil {
			return false, fmt.Errorf("%w: second volume group section %q",
				ErrDuplicateKey, section.Name)
		}
		vg, err := buildVolumeGroup(section)
		if err != nil {
			return false, err
		}
		layout.VgName = section.Name
		layout.Vg = vg
		return true, nil
	}

	if err := buildSection(root, specs, fallback); err != nil {
		return nil, err
	}
	if layout.Vg == nil {
		return nil, fmt.Errorf("%w: volume group section", ErrMissingField)
	}
	return layout, nil
}

func buildVolumeGroup(section *text.Section) (*VolumeGroup, error) {
	vg := &VolumeGroup{MetadataCopies: 1}

	specs := map[string]*fieldSpec{
		"id":     {required: true, parse: func(n text.Node) error { return scalarString(n, &vg.ID) }},
		"seqno":  {required: true, parse: func(n text.Node) error { return scalarUint(n, &vg.Seqno) }},
		"format": {required: true, parse: func(n text.Node) error { return scalarString(n, &vg.Format) }},
		"status": {required: true, parse: func(n text.Node) error {
			elements, err := arrayPayload(n)
			if err != nil {
				return err
			}
			for _, element := range elements {
				flag, known := VolumeGroupStatusNames[element]
				if !known {
					return fmt.Errorf("%w: volume group status %q", ErrUnknownStatus, element)
				}
				vg.Status |= flag
			}
			return nil
		}},
		"flags":           {parse: func(n text.Node) error { return flagsArray(n, &vg.Flags) }},
		"extent_size":     {required: true, parse: func(n text.Node) error { return scalarUint(n, &vg.ExtentSize) }},
		"max_lv":          {required: true, parse: func(n text.Node) error { return scalarUint(n, &vg.MaxLv) }},
		"max_pv":          {required: true, parse: func(n text.Node) error { return scalarUint(n, &vg.MaxPv) }},
		"metadata_copies": {parse: func(n text.Node) error { return scalarUint(n, &vg.MetadataCopies) }},
		"physical_volumes": {required: true, parse: func(n text.Node) error {
			container, err := sectionPayload(n)
			if err != nil {
				return err
			}
			for _, child := range container.Children {
				pvSection, err := sectionPayload(child)
				if err != nil {
					return err
				}
				pv, err := buildPhysicalVolume(pvSection)
				if err != nil {
					return err
				}
				vg.PhysicalVolumes = append(vg.PhysicalVolumes, pv)
			}
			return nil
		}},
		"logical_volumes": {parse: func(n text.Node) error {
			container, err := sectionPayload(n)
			if err != nil {
				return err
			}
			for _, child := range container.Children {
				lvSection, err := sectionPayload(child)
				if err != nil {
					return err
				}
				lv, err := buildLogicalVolume(lvSection)
				if err != nil {
					return err
				}
				vg.LogicalVolumes = append(vg.LogicalVolumes, lv)
			}
			return nil
		}},
	}

	if err := buildSection(section, specs, nil); err != nil {
		return nil, err
	}
	if vg.Format != VolumeGroupFormat {
		return nil, fmt.Errorf("%w: %q", ErrFormatMismatch, vg.Format)
	}
	return vg, nil
}

func buildPhysicalVolume(section *text.Section) (*PhysicalVolume, error) {
	pv := &PhysicalVolume{Name: section.Name}

	specs := map[string]*fieldSpec{
		"id":     {required: true, parse: func(n text.Node) error { return scalarString(n, &pv.ID) }},
		"device": {parse: func(n text.Node) error { return scalarString(n, &pv.Device) }},
		"status": {required: true, parse: func(n text.Node) error {
			elements, err := arrayPayload(n)
			if err != nil {
				return err
			}
			for _, element := range elements {
				flag, known := PhysicalVolumeStatusNames[element]
				if !known {
					return fmt.Errorf("%w: physical volume status %q", ErrUnknownStatus, element)
				}
				pv.Status |= flag
			}
			return nil
		}},
		"flags":    {parse: func(n text.Node) error { return flagsArray(n, &pv.Flags) }},
		"dev_size": {parse: func(n text.Node) error { return scalarUint(n, &pv.DevSize) }},
		"pe_start": {required: true, parse: func(n text.Node) error { return scalarUint(n, &pv.PeStart) }},
		"pe_count": {required: true, parse: func(n text.Node) error { return scalarUint(n, &pv.PeCount) }},
	}

	if err := buildSection(section, specs, nil); err != nil {
		return nil, err
	}
	return pv, nil
}

const segmentPrefix = "segment"

func buildLogicalVolume(section *text.Section) (*LogicalVolume, error) {
	lv := &LogicalVolume{Name: section.Name}

	specs := map[string]*fieldSpec{
		"id": {required: true, parse: func(n text.Node) error { return scalarString(n, &lv.ID) }},
		"status": {required: true, parse: func(n text.Node) error {
			elements, err := arrayPayload(n)
			if err != nil {
				return err
			}
			for _, element := range elements {
				flag, known := LogicalVolumeStatusNames[element]
				if !known {
					return fmt.Errorf("%w: logical volume status %q", ErrUnknownStatus, element)
				}
				lv.Status |= flag
			}
			return nil
		}},
		"flags":             {parse: func(n text.Node) error { return flagsArray(n, &lv.Flags) }},
		"creation_host":     {parse: func(n text.Node) error { return scalarString(n, &lv.CreationHost) }},
		"creation_time":     {parse: func(n text.Node) error { return scalarUint(n, &lv.CreationTime) }},
		"allocation_policy": {parse: func(n text.Node) error { return scalarString(n, &lv.AllocationPolicy) }},
		"segment_count":     {required: true, parse: func(n text.Node) error { return scalarUint(n, &lv.SegmentCount) }},
	}

	seenSegments := make(map[string]bool)
	fallback := func(node text.Node) (bool, error) {
		segSection, ok := node.(*text.Section)
		if !ok || !strings.HasPrefix(segSection.Name, segmentPrefix) {
			return false, nil
		}
		index, err := parseUint64(segSection.Name[len(segmentPrefix):])
		if err != nil {
			return false, nil
		}
		if seenSegments[segSection.Name] {
			return false, fmt.Errorf("%w: %q in logical volume %q",
				ErrDuplicateKey, segSection.Name, lv.Name)
		}
		seenSegments[segSection.Name] = true

		if expected := uint64(len(lv.Segments)) + 1; index != expected {
			return false, fmt.Errorf("%w: got %q, expected segment%d in logical volume %q",
				ErrSegmentOrder, segSection.Name, expected, lv.Name)
		}
		segment, err := buildSegment(segSection)
		if err != nil {
			return false, err
		}
		lv.Segments = append(lv.Segments, segment)
		return true, nil
	}

	if err := buildSection(section, specs, fallback); err != nil {
		return nil, err
	}
	if lv.SegmentCount != uint64(len(lv.Segments)) {
		return nil, fmt.Errorf("%w: segment_count %d but %d segments in logical volume %q",
			ErrSegmentOrder, lv.SegmentCount, len(lv.Segments), lv.Name)
	}
	return lv, nil
}

func buildSegment(section *text.Section) (*Segment, error) {
	segment := &Segment{}

	specs := map[string]*fieldSpec{
		"start_extent": {required: true, parse: func(n text.Node) error { return scalarUint(n, &segment.StartExtent) }},
		"extent_count": {required: true, parse: func(n text.Node) error { return scalarUint(n, &segment.ExtentCount) }},
		"type":         {required: true, parse: func(n text.Node) error { return scalarString(n, &segment.Type) }},
		"stripe_count": {parse: func(n text.Node) error { return scalarUint(n, &segment.StripeCount) }},
		"stripe_size":  {parse: func(n text.Node) error { return scalarUint(n, &segment.StripeSize) }},
		"stripes":      {parse: func(n text.Node) error { return locationsArray(n, &segment.Stripes) }},
		"mirror_count": {parse: func(n text.Node) error { return scalarUint(n, &segment.MirrorCount) }},
		"mirror_log":   {parse: func(n text.Node) error { return scalarString(n, &segment.MirrorLog) }},
		"region_size":  {parse: func(n text.Node) error { return scalarUint(n, &segment.RegionSize) }},
		"mirrors":      {parse: func(n text.Node) error { return locationsArray(n, &segment.Mirrors) }},
	}

	if err := buildSection(section, specs, nil); err != nil {
		return nil, err
	}
	return segment, nil
}
