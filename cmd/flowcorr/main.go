// Package main provides the FlowCorr CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/flowcorr-ml/flowcorr/backend/cpu"
	"github.com/flowcorr-ml/flowcorr/correlation"
	"github.com/flowcorr-ml/flowcorr/tensor"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("FlowCorr %s\n", version)
		return
	}

	batch := flag.Int("batch", 1, "Batch size")
	channels := flag.Int("channels", 64, "Feature channels")
	height := flag.Int("height", 48, "Feature map height")
	width := flag.Int("width", 64, "Feature map width")
	kernelSize := flag.Int("kernel", 1, "Correlation patch side length (odd)")
	maxDisp := flag.Int("max-displacement", 4, "Displacement search radius in pixels")
	stride1 := flag.Int("stride1", 1, "Anchor stride over the padded input")
	stride2 := flag.Int("stride2", 1, "Stride over the displacement window")
	pad := flag.Int("pad", 4, "Symmetric zero padding")
	layoutTag := flag.String("layout", "channels_first", "Tensor layout: channels_first or channels_last")
	withBackward := flag.Bool("backward", false, "Also time the adjoint pass")
	flag.Parse()

	layout, err := correlation.ParseLayout(*layoutTag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowcorr: %v\n", err)
		os.Exit(1)
	}
	params, err := correlation.NewParams(*kernelSize, *maxDisp, *stride1, *stride2, *pad, layout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowcorr: %v\n", err)
		os.Exit(1)
	}

	shape := tensor.Shape{*batch, *channels, *height, *width}
	if layout == correlation.ChannelsLast {
		shape = tensor.Shape{*batch, *height, *width, *channels}
	}

	a, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowcorr: %v\n", err)
		os.Exit(1)
	}
	b := a.Clone()
	fill(a.AsFloat32(), 3)
	fill(b.AsFloat32(), 7)

	backend := cpu.New()

	outShape, err := correlation.OutputShape(shape, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowcorr: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("FlowCorr %s — correlation cost volume benchmark\n\n", version)
	fmt.Printf("  input:  %v (%s, float32)\n", shape, layout)
	fmt.Printf("  output: %v\n", outShape)
	fmt.Printf("  geometry: kernel=%d max_displacement=%d stride_1=%d stride_2=%d pad=%d\n\n",
		*kernelSize, *maxDisp, *stride1, *stride2, *pad)

	start := time.Now()
	out, err := correlation.Forward(backend, a, b, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowcorr: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  forward:  %v\n", time.Since(start))

	if *withBackward {
		grad, err := tensor.NewRaw(out.Shape(), tensor.Float32, tensor.CPU)
		if err != nil {
			fmt.Fprintf(os.Stderr, "flowcorr: %v\n", err)
			os.Exit(1)
		}
		fill(grad.AsFloat32(), 11)

		start = time.Now()
		if _, _, err := correlation.Backward(backend, a, b, grad, params); err != nil {
			fmt.Fprintf(os.Stderr, "flowcorr: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  backward: %v\n", time.Since(start))
	}
}

func fill(data []float32, seed int) {
	for i := range data {
		data[i] = float32((i*31+seed*17)%13-6) / 4
	}
}
