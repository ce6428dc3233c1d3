// Copyright 2025 The FlowCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor types for the FlowCorr library.
//
// # Overview
//
// FlowCorr tensors are dense 4-D feature maps:
//   - Shape: tensor dimensions, [N, C, H, W] in canonical layout
//   - RawTensor: the dense buffer plus runtime type information
//   - DataType: Float16, Float32, Float64
//   - Backend: interface implemented by compute backends
//
// # Basic Usage
//
//	import (
//	    "github.com/flowcorr-ml/flowcorr/tensor"
//	)
//
//	a, err := tensor.NewRaw(tensor.Shape{1, 2, 5, 5}, tensor.Float32, tensor.CPU)
//	if err != nil { ... }
//	copy(a.AsFloat32(), featureData)
package tensor
