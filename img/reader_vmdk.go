package img

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	extent "github.com/aarsakian/VMDK_Reader/extent"
)

type VMDKReader struct {
	PathToEvidenceFiles string
	fd                  extent.Extents
}

func (imgreader *VMDKReader) CreateHandler() error {
	extension := path.Ext(imgreader.PathToEvidenceFiles)
	if strings.ToLower(extension) != ".vmdk" {
		return fmt.Errorf("only VMDK Sparse images are supported, got %s", extension)
	}
	imgreader.fd = extent.LocateExtents(imgreader.PathToEvidenceFiles)
	return nil
}

func (imgreader VMDKReader) CloseHandler() {

}

func (imgreader VMDKReader) ReadFile(physicalOffset int64, length int) ([]byte, error) {
	var buf bytes.Buffer
	imgreader.fd.RetrieveData(&buf, physicalOffset, int64(length))
	data := buf.Bytes()
	if len(data) < length {
		return nil, fmt.Errorf("short read on %s at %d", imgreader.PathToEvidenceFiles, physicalOffset)
	}
	return data, nil
}

func (imgreader VMDKReader) GetDiskSize() int64 {
	return imgreader.fd.GetHDSize()
}

func (imgreader VMDKReader) GetBlockSize() uint32 {
	return 512
}
