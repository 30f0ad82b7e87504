package img

import (
	"fmt"
	"path"
	"strings"

	ewfLib "github.com/aarsakian/EWF_Reader/ewf"

	"github.com/unsound/IOLVMPartitionScheme/utils"
)

type ImageReader struct {
	PathToEvidenceFiles string
	fd                  ewfLib.EWF_Image
}

func (imgreader *ImageReader) CreateHandler() error {
	extension := path.Ext(imgreader.PathToEvidenceFiles)
	if strings.ToLower(extension) != ".e01" {
		return fmt.Errorf("only EWF images are supported, got %s", extension)
	}
	var ewf_image ewfLib.EWF_Image
	filenames := utils.FindEvidenceFiles(imgreader.PathToEvidenceFiles)

	ewf_image.ParseEvidence(filenames)

	imgreader.fd = ewf_image
	return nil
}

func (imgreader ImageReader) CloseHandler() {

}

func (imgreader ImageReader) ReadFile(physicalOffset int64, length int) ([]byte, error) {
	data := imgreader.fd.RetrieveData(physicalOffset, int64(length))
	if len(data) < length {
		return nil, fmt.Errorf("short read on %s at %d", imgreader.PathToEvidenceFiles, physicalOffset)
	}
	return data, nil
}

func (imgreader ImageReader) GetDiskSize() int64 {
	return int64(imgreader.fd.Chunksize) * int64(imgreader.fd.NofChunks)
}

func (imgreader ImageReader) GetBlockSize() uint32 {
	return 512
}
