package lvmlib

import "errors"

var (
	ErrIo                    = errors.New("device read failed")
	ErrNoLabel               = errors.New("no LVM label found on volume")
	ErrHeaderOverflow        = errors.New("physical volume header overflows label sector")
	ErrAreaMismatch          = errors.New("data area and metadata area counts differ")
	ErrBadCrc                = errors.New("stored and calculated checksums differ")
	ErrBadMagic              = errors.New("magic does not match")
	ErrBadSectorSelf         = errors.New("self reported location does not match")
	ErrUnsupportedMdaVersion = errors.New("unsupported metadata area version")
	ErrNoRawLocn             = errors.New("no active raw location in metadata area")
	ErrMultipleRawLocns      = errors.New("multiple raw locations in metadata area")
	ErrRawLocnOutOfRange     = errors.New("raw location outside metadata area")
	ErrNoPvMatch             = errors.New("metadata does not describe this physical volume")
)
