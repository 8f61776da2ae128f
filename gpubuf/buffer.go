// Package gpubuf provides a typed GPU buffer wrapper that reallocates only
// when grown, mirroring the capacity/used split of a resizable CPU vector.
package gpubuf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNilDevice is returned when a buffer operation is attempted without a
// device.
var ErrNilDevice = errors.New("gpubuf: device is nil")

// Buffer is a GPU buffer that grows on demand: it reallocates only when
// asked to hold more data than its current capacity, and otherwise reuses
// the existing allocation and overwrites its contents.
type Buffer struct {
	label    string
	usage    gputypes.BufferUsage
	device   hal.Device
	queue    hal.Queue
	handle   hal.Buffer
	capacity uint64 // bytes
	used     uint64 // bytes actually holding live data
}

// New creates an empty buffer bound to device/queue. No GPU allocation
// happens until the first Update* call.
func New(device hal.Device, queue hal.Queue, usage gputypes.BufferUsage, label string) *Buffer {
	return &Buffer{label: label, usage: usage, device: device, queue: queue}
}

// Handle returns the underlying GPU buffer, or nil if nothing has been
// uploaded yet.
func (b *Buffer) Handle() hal.Buffer { return b.handle }

// Used returns the byte length of the most recently uploaded data.
func (b *Buffer) Used() uint64 { return b.used }

// Capacity returns the buffer's current allocation size in bytes.
func (b *Buffer) Capacity() uint64 { return b.capacity }

// UpdateWithF32Data uploads data as packed little-endian float32s,
// reallocating the underlying buffer only if its capacity is too small.
func (b *Buffer) UpdateWithF32Data(data []float32) error {
	raw := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	return b.upload(raw)
}

// UpdateWithU32Data uploads data as packed little-endian uint32s,
// reallocating the underlying buffer only if its capacity is too small.
func (b *Buffer) UpdateWithU32Data(data []uint32) error {
	raw := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(raw[i*4:], v)
	}
	return b.upload(raw)
}

func (b *Buffer) upload(raw []byte) error {
	if b.device == nil {
		return ErrNilDevice
	}
	need := uint64(len(raw))
	if b.handle == nil || b.capacity < need {
		if b.handle != nil {
			b.device.DestroyBuffer(b.handle)
		}
		size := need
		if size == 0 {
			size = 4
		}
		handle, err := b.device.CreateBuffer(&hal.BufferDescriptor{
			Label: b.label,
			Size:  size,
			Usage: b.usage | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("gpubuf: allocate %q: %w", b.label, err)
		}
		b.handle = handle
		b.capacity = size
	}
	if need > 0 {
		if err := b.queue.WriteBuffer(b.handle, 0, raw); err != nil {
			return fmt.Errorf("gpubuf: upload %q: %w", b.label, err)
		}
	}
	b.used = need
	return nil
}

// Destroy releases the underlying GPU buffer, if any.
func (b *Buffer) Destroy() {
	if b.handle != nil {
		b.device.DestroyBuffer(b.handle)
		b.handle = nil
		b.capacity = 0
		b.used = 0
	}
}
