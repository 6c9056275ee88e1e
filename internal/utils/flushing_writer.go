package utils

import (
	"io"
	"sync"

	"go.uber.org/zap/zapcore"
)

type flusher interface {
	Flush() error
}

type syncer interface {
	Sync() error
}

// FlushingWriter serializes writes to a log sink and pushes buffered data through after every entry.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps writer as a zap write syncer.
func NewFlushingWriter(writer io.Writer) zapcore.WriteSyncer {
	if alreadyWrapped, isFlushingWriter := writer.(*FlushingWriter); isFlushingWriter {
		return alreadyWrapped
	}
	return &FlushingWriter{writer: writer}
}

// Write delegates to the underlying writer and flushes it when it buffers.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	if flushingWriter.writer == nil {
		return len(data), nil
	}

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if bufferedWriter, buffers := flushingWriter.writer.(flusher); buffers {
		if flushError := bufferedWriter.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}
	return bytesWritten, nil
}

// Sync forwards to the underlying writer when it supports syncing.
func (flushingWriter *FlushingWriter) Sync() error {
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	if syncingWriter, syncs := flushingWriter.writer.(syncer); syncs {
		return syncingWriter.Sync()
	}
	return nil
}
