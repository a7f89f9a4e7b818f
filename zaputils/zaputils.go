package zaputils

import (
	"fmt"

	"go.uber.org/zap"
)

func BucketName(key string, val string) zap.Field {
	return zap.String(key, val)
}

func DocID(key string, val []byte) zap.Field {
	return zap.String(key, string(val))
}

// OpCode logs an opcode by its protocol name rather than its numeric value.
func OpCode(key string, val fmt.Stringer) zap.Field {
	return zap.Stringer(key, val)
}

// Opaque logs a request opaque in the hex form used by server-side logs.
func Opaque(key string, val uint32) zap.Field {
	return zap.String(key, fmt.Sprintf("0x%08x", val))
}

type LoggableOpID struct {
	BucketName string
	OpName     string
	Opaque     uint32
}

func (e LoggableOpID) String() string {
	if e.BucketName == "" {
		return fmt.Sprintf("%s#%d", e.OpName, e.Opaque)
	}

	return fmt.Sprintf("%s/%s#%d", e.BucketName, e.OpName, e.Opaque)
}

// OpID logs the identity of a single in-flight operation.
func OpID(key string, bucket string, opName string, opaque uint32) zap.Field {
	return zap.Stringer(key, LoggableOpID{
		BucketName: bucket,
		OpName:     opName,
		Opaque:     opaque,
	})
}
