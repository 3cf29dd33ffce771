// lut3d - 3D colour lookup tables for images
//
// lut3d reads .cube, .3dl, .dat and .m3d LUT files and applies them to
// images with nearest, trilinear or tetrahedral interpolation.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/lut3d/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
