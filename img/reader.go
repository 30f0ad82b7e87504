package img

type DiskReader interface {
	CreateHandler() error
	CloseHandler()
	ReadFile(int64, int) ([]byte, error)
	GetDiskSize() int64
	GetBlockSize() uint32
}

func GetHandler(pathToDisk string, kind string) (DiskReader, error) {
	var dr DiskReader
	switch kind {
	case "ewf":
		dr = &ImageReader{PathToEvidenceFiles: pathToDisk}
	case "vmdk":
		dr = &VMDKReader{PathToEvidenceFiles: pathToDisk}
	default:
		dr = newRawDeviceReader(pathToDisk)
	}

	err := dr.CreateHandler()
	if err != nil {
		return nil, err
	}
	return dr, nil
}
