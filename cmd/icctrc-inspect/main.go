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

package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/colorgamut/icctrc"
)

var (
	verbose = flag.Bool("v", false, "verbose output")
	exact   = flag.Bool("exact", false, "evaluate parametric curves exactly instead of rasterising")
)

func main() {
	flag.Parse()
	for _, fname := range flag.Args() {
		if err := show(fname); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", fname, err)
		}
	}
}

func show(fname string) error {
	body, err := os.ReadFile(fname)
	if err != nil {
		return err
	}

	var opts []icc.Option
	if *exact {
		opts = append(opts, icc.WithExactParametricEval())
	}
	p, err := icc.Open(body, opts...)
	if err != nil {
		return err
	}

	major, minor, bugfix := p.Version()
	if !*verbose {
		fmt.Printf("%d.%d.%d  %-10s %6d bytes  %s\n", major, minor, bugfix, p.Class(), len(body), fname)
		return nil
	}

	fmt.Printf("Profile: %s\n", fname)
	fmt.Printf("  Version: %d.%d.%d\n", major, minor, bugfix)
	fmt.Printf("  Class: %s\n", p.Class())
	if name := p.Name(); name != "" {
		fmt.Printf("  Name: %s\n", name)
	}
	fmt.Printf("  PCS is D50: %t\n", p.IsPCSD50())

	if cs := p.Colourspace(); cs != nil {
		fmt.Printf("  Whitepoint (xy): %.6f %.6f\n", cs.WhitepointXY[0], cs.WhitepointXY[1])
		labels := [3]string{"R", "G", "B"}
		for i, xy := range cs.PrimariesXY {
			fmt.Printf("  Primary %s (xy): %.6f %.6f\n", labels[i], xy[0], xy[1])
		}
	}

	for _, w := range p.Warnings() {
		fmt.Printf("  warning: %s\n", w)
	}

	fmt.Println()

	tags := p.TagSignatures()
	unique := maps.Keys(toSet(tags))
	slices.Sort(unique)
	for _, sig := range unique {
		fmt.Printf("  %s\n", sig)
	}

	fmt.Println()

	return nil
}

func toSet(sigs []string) map[string]struct{} {
	out := make(map[string]struct{}, len(sigs))
	for _, s := range sigs {
		out[s] = struct{}{}
	}
	return out
}
