package memdx

import "strings"

// DatatypeFlag specifies data flags for the value of a document.
type DatatypeFlag uint8

const (
	// DatatypeFlagNone indicates the value is raw bytes.
	DatatypeFlagNone = DatatypeFlag(0x00)

	// DatatypeFlagJSON indicates the server believes the value payload to be JSON.
	DatatypeFlagJSON = DatatypeFlag(0x01)

	// DatatypeFlagCompressed indicates the value payload is compressed.
	DatatypeFlagCompressed = DatatypeFlag(0x02)

	// DatatypeFlagXattrs indicates the inclusion of xattr data in the value payload.
	DatatypeFlagXattrs = DatatypeFlag(0x04)
)

func (f DatatypeFlag) Has(flag DatatypeFlag) bool {
	return f&flag == flag && flag != 0
}

func (f DatatypeFlag) String() string {
	if f == DatatypeFlagNone {
		return "raw"
	}

	var parts []string
	if f.Has(DatatypeFlagJSON) {
		parts = append(parts, "json")
	}
	if f.Has(DatatypeFlagCompressed) {
		parts = append(parts, "snappy")
	}
	if f.Has(DatatypeFlagXattrs) {
		parts = append(parts, "xattr")
	}
	return strings.Join(parts, ",")
}
