package commonflags

const (
	// Legacy flag format for JSON data.
	LegacyJSON = 0

	// Common flags format for JSON data.
	FmtJSON = 2 << 24

	// Common flags mask
	Mask = 0xFF000000
	// Common flags mask for data format
	FmtMask = 0x0F000000
	// Common flags mask for compression mode.
	CmprMask = 0x70000000
	// Common flags mask for the type code.
	TypeCodeMask = 0x0000FFFF

	fmtShift  = 24
	cmprShift = 28
)

// ToCommonFlags packs f into the 32-bit common flags value stored with a
// document.  The packed form matches the first four bytes of the store
// extras when read as a big-endian integer.
func (f Flags) ToCommonFlags() uint32 {
	var flags uint32

	flags |= (uint32(f.DataFormat) << fmtShift) & FmtMask
	flags |= (uint32(f.Compression) << cmprShift) & CmprMask
	flags |= uint32(f.TypeCode) & TypeCodeMask

	return flags
}

// FromCommonFlags unpacks a 32-bit common flags value.  Documents written
// by legacy clients carry no format bits; a zero value is treated as JSON
// and any other legacy value as private data.
func FromCommonFlags(flags uint32) Flags {
	if flags&Mask == 0 {
		if flags == LegacyJSON {
			return Flags{
				DataFormat:  DataFormatJSON,
				Compression: CompressionNone,
				TypeCode:    TypeCodeObject,
			}
		}

		return Flags{
			DataFormat:  DataFormatPrivate,
			Compression: CompressionNone,
			TypeCode:    TypeCode(flags & TypeCodeMask),
		}
	}

	return Flags{
		DataFormat:  DataFormat((flags & FmtMask) >> fmtShift),
		Compression: Compression((flags & CmprMask) >> cmprShift),
		TypeCode:    TypeCode(flags & TypeCodeMask),
	}
}
