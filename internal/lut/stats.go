package lut

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChannelStats summarises one output channel of a grid.
type ChannelStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Stats summarises how far a grid departs from the identity transform.
type Stats struct {
	Size int `json:"size"`

	R ChannelStats `json:"r"`
	G ChannelStats `json:"g"`
	B ChannelStats `json:"b"`

	// MeanDeviation and MaxDeviation are Euclidean distances between each
	// cell and the identity value for that cell, in colour space.
	MeanDeviation float64 `json:"mean_deviation"`
	MaxDeviation  float64 `json:"max_deviation"`

	// OutOfRange counts cells with any component outside [0, 1].
	OutOfRange int `json:"out_of_range"`
}

// ComputeStats returns summary statistics for g.
func ComputeStats(g *Grid) Stats {
	n := g.size
	count := len(g.cells)
	rs := make([]float64, count)
	gs := make([]float64, count)
	bs := make([]float64, count)
	dev := make([]float64, count)

	c := 1 / float64(n-1)
	st := Stats{Size: n}
	for r := 0; r < n; r++ {
		for gr := 0; gr < n; gr++ {
			for b := 0; b < n; b++ {
				i := g.index(r, gr, b)
				v := g.cells[i]
				rs[i], gs[i], bs[i] = float64(v.R), float64(v.G), float64(v.B)

				want := []float64{float64(r) * c, float64(gr) * c, float64(b) * c}
				dev[i] = floats.Distance([]float64{rs[i], gs[i], bs[i]}, want, 2)

				if outOfUnit(rs[i]) || outOfUnit(gs[i]) || outOfUnit(bs[i]) {
					st.OutOfRange++
				}
			}
		}
	}

	st.R = channelStats(rs)
	st.G = channelStats(gs)
	st.B = channelStats(bs)
	st.MeanDeviation = stat.Mean(dev, nil)
	st.MaxDeviation = floats.Max(dev)
	return st
}

func channelStats(v []float64) ChannelStats {
	mean, std := stat.MeanStdDev(v, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return ChannelStats{
		Min:    floats.Min(v),
		Max:    floats.Max(v),
		Mean:   mean,
		StdDev: std,
	}
}

func outOfUnit(v float64) bool {
	return v < 0 || v > 1
}
