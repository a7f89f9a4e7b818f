package gocbkvx

import (
	"github.com/couchbase/gocbkvx/memdx"
	"github.com/couchbase/gocbkvx/zaputils"
	"go.uber.org/zap"
)

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func opLogger(logger *zap.Logger, bucketName string, opCode memdx.OpCode, opaque uint32) *zap.Logger {
	return loggerOrNop(logger).With(
		zaputils.OpID("op", bucketName, opCode.Name(), opaque))
}
