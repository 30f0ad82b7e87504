package lvmlib

// InitialCRC seeds every LVM2 checksum. It is not the standard CRC-32 seed;
// bit compatibility with the lvm tools requires this exact value.
const InitialCRC uint32 = 0xf597a6cf

var crctab = [16]uint32{
	0x00000000, 0x1db71064, 0x3b6e20c8, 0x26d930ac,
	0x76dc4190, 0x6b6b51f4, 0x4db26158, 0x5005713c,
	0xedb88320, 0xf00f9344, 0xd6d6a3e8, 0xcb61b38c,
	0x9b64c2b0, 0x86d3d2d4, 0xa00ae278, 0xbdbdf21c,
}

// CalcCRC applies the LVM variant of CRC-32, one nibble at a time.
func CalcCRC(initial uint32, data []byte) uint32 {
	crc := initial
	for _, b := range data {
		crc ^= uint32(b)
		crc = (crc >> 4) ^ crctab[crc&0xf]
		crc = (crc >> 4) ^ crctab[crc&0xf]
	}
	return crc
}
