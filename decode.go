// seehuhn.de/go/icc - read and write ICC profiles
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package icc

import "sync"

// ChannelTrc bundles the three per-channel tone-reproduction curves of a
// Matrix/TRC profile, plus whether all three are identical. Uniform is
// precomputed once at Open time (spec.md §4.4 step 3) rather than
// recomputed on every Decode call.
type ChannelTrc struct {
	R, G, B *Curve
	Uniform bool
}

// decodeMatrixTRC applies a ChannelTrc to a slice of RGB pixels, returning a
// new slice of the same length. When t.Uniform is set, every channel is
// evaluated against the same curve in one pass (spec.md §4.4: no benefit to
// splitting identical work across goroutines). Otherwise each channel runs
// in its own goroutine, joined with a sync.WaitGroup: at most 3 concurrent
// tasks per call, reassembled into R,G,B order once all three finish.
func decodeMatrixTRC(pixels [][3]float64, t *ChannelTrc) [][3]float64 {
	out := make([][3]float64, len(pixels))

	if t.Uniform {
		c := t.R
		for i, px := range pixels {
			out[i] = [3]float64{c.Evaluate(px[0]), c.Evaluate(px[1]), c.Evaluate(px[2])}
		}
		return out
	}

	curves := [3]*Curve{t.R, t.G, t.B}
	var wg sync.WaitGroup
	wg.Add(3)
	for ch := 0; ch < 3; ch++ {
		ch := ch
		go func() {
			defer wg.Done()
			c := curves[ch]
			for i, px := range pixels {
				out[i][ch] = c.Evaluate(px[ch])
			}
		}()
	}
	wg.Wait()
	return out
}

// maxDecodeWorkers bounds the goroutine fan-out for mAB pipeline decoding
// to spec.md §5's "at most 3 active tasks per call".
const maxDecodeWorkers = 3

// decodeMab applies a MabPipeline to a slice of RGB pixels, returning a new
// slice of the same length. Work is split into up to maxDecodeWorkers
// contiguous chunks, each run in its own goroutine and joined with a
// sync.WaitGroup, since the CLUT stage needs all three input channels of a
// pixel together and cannot be split per-channel the way ChannelTrc is.
func decodeMab(pixels [][3]float64, p *MabPipeline) [][3]float64 {
	out := make([][3]float64, len(pixels))
	n := len(pixels)
	if n == 0 {
		return out
	}

	workers := maxDecodeWorkers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = p.Apply(pixels[i])
			}
		}(start, end)
	}
	wg.Wait()
	return out
}
