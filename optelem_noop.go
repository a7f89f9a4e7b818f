package gocbkvx

import (
	"context"
	"time"
)

type opTelemNoOp struct {
}

var _ OpTelem = (*opTelemNoOp)(nil)

type opTelemOpNoOp struct {
}

func (k *opTelemNoOp) BeginOp(
	ctx context.Context,
	bucketName string,
	opName string,
) (context.Context, OpTelemOp) {
	return ctx, &opTelemOpNoOp{}
}

func (k *opTelemOpNoOp) IsRecording() bool {
	return false
}

func (k *opTelemOpNoOp) MarkSent() {
}

func (k *opTelemOpNoOp) MarkReceived() {
}

func (k *opTelemOpNoOp) RecordServerDuration(d time.Duration) {
}

func (k *opTelemOpNoOp) End(ctx context.Context, err error) {
}
