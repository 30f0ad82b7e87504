package utils

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
)

func Hexify(barray []byte) string {

	return hex.EncodeToString(barray)

}

func Bytereverse(barray []byte) []byte { //work with indexes
	for i, j := 0, len(barray)-1; i < j; i, j = i+1, j-1 {
		barray[i], barray[j] = barray[j], barray[i]

	}
	return barray

}

// Unmarshal decodes a little-endian on disk struct. It returns the number of
// bytes consumed so callers can walk lists of consecutive structs.
func Unmarshal(data []byte, v interface{}) (int, error) {
	idx := 0
	structValPtr := reflect.ValueOf(v)
	structType := reflect.TypeOf(v)
	if structType.Elem().Kind() != reflect.Struct {
		return 0, errors.New("must be a struct")
	}
	for i := 0; i < structValPtr.Elem().NumField(); i++ {
		field := structValPtr.Elem().Field(i) //StructField type
		switch field.Kind() {
		case reflect.Uint8:
			if idx+1 > len(data) {
				return idx, errors.New("data exhausted")
			}
			field.SetUint(uint64(data[idx]))
			idx += 1
		case reflect.Uint16:
			var temp uint16
			if idx+2 > len(data) {
				return idx, errors.New("data exhausted")
			}
			binary.Read(bytes.NewBuffer(data[idx:idx+2]), binary.LittleEndian, &temp)
			field.SetUint(uint64(temp))
			idx += 2
		case reflect.Uint32:
			var temp uint32
			if idx+4 > len(data) {
				return idx, errors.New("data exhausted")
			}
			binary.Read(bytes.NewBuffer(data[idx:idx+4]), binary.LittleEndian, &temp)
			field.SetUint(uint64(temp))
			idx += 4
		case reflect.Uint64:
			var temp uint64
			if idx+8 > len(data) {
				return idx, errors.New("data exhausted")
			}
			binary.Read(bytes.NewBuffer(data[idx:idx+8]), binary.LittleEndian, &temp)
			field.SetUint(temp)
			idx += 8
		case reflect.Array:
			nofBytes := field.Len()
			if idx+nofBytes > len(data) {
				return idx, errors.New("data exhausted")
			}
			for pos := 0; pos < nofBytes; pos++ {
				field.Index(pos).SetUint(uint64(data[idx+pos]))
			}
			idx += nofBytes

		}

	}
	return idx, nil
}

// GetStructSize gives the on disk footprint of a struct as decoded by Unmarshal.
func GetStructSize(v interface{}) int {
	size := 0
	structType := reflect.TypeOf(v)
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	for i := 0; i < structType.NumField(); i++ {
		switch structType.Field(i).Type.Kind() {
		case reflect.Uint8:
			size += 1
		case reflect.Uint16:
			size += 2
		case reflect.Uint32:
			size += 4
		case reflect.Uint64:
			size += 8
		case reflect.Array:
			size += structType.Field(i).Type.Len()
		}
	}
	return size
}

type LargeInteger struct {
	LowPart  int32
	HighPart int32
}

func NewLargeInteger(offset int64) LargeInteger {
	return LargeInteger{LowPart: int32(offset & 0xFFFFFFFF), HighPart: int32(offset >> 32)}
}

// FindEvidenceFiles locates the segment files (.E01, .E02, ...) belonging to
// the evidence file the user pointed at.
func FindEvidenceFiles(pathToEvidenceFiles string) []string {
	extension := filepath.Ext(pathToEvidenceFiles)
	pattern := strings.TrimSuffix(pathToEvidenceFiles, extension) + ".?[0-9][0-9]"
	filenames, err := filepath.Glob(pattern)
	if err != nil || len(filenames) == 0 {
		return []string{pathToEvidenceFiles}
	}
	sort.Strings(filenames)
	return filenames
}
