// Copyright 2025 The FlowCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float16 DataType = tensor.Float16
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU Device = tensor.CPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4, 5} represents a 4D tensor with dimensions 2×3×4×5.
type Shape = tensor.Shape

// RawTensor is the dense tensor representation all FlowCorr operators work
// on. Tensors are independent values; the library never mutates a tensor it
// did not allocate.
type RawTensor = tensor.RawTensor

// Backend is the interface compute backends implement.
// See backend/cpu for the CPU implementation.
type Backend = tensor.Backend

// NewRaw creates a new zero-initialized tensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromFloat32 creates a Float32 tensor initialized from a slice.
//
// Example:
//
//	a, err := tensor.FromFloat32(data, tensor.Shape{1, 2, 5, 5})
func FromFloat32(data []float32, shape Shape) (*RawTensor, error) {
	return tensor.FromFloat32(data, shape)
}

// FromFloat64 creates a Float64 tensor initialized from a slice.
func FromFloat64(data []float64, shape Shape) (*RawTensor, error) {
	return tensor.FromFloat64(data, shape)
}
