package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// syncBuffer collects log output and counts flushes
type syncBuffer struct {
	bytes.Buffer
	syncs int
}

func (b *syncBuffer) Sync() error {
	b.syncs++
	return nil
}

func newBufferedLogger(out *syncBuffer) *zap.Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), out, zap.DebugLevel)
	return zap.New(core)
}

func TestFinishFlushesOnError(t *testing.T) {
	out := &syncBuffer{}

	code := finish(newBufferedLogger(out), errors.New("mongo unreachable"))

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "mongo unreachable")
	assert.Equal(t, 1, out.syncs)
}

func TestFinishCleanExit(t *testing.T) {
	out := &syncBuffer{}

	code := finish(newBufferedLogger(out), nil)

	assert.Equal(t, 0, code)
	assert.Empty(t, out.String())
	assert.Equal(t, 1, out.syncs)
}
