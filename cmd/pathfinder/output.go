package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pathfinder"
)

// Complex numbers are written as [re, im] pairs; neither YAML nor JSON has
// a native complex type.
type pair [2]float64

func toPair(z complex128) pair { return pair{real(z), imag(z)} }

func toPairs(zs []complex128) []pair {
	out := make([]pair, len(zs))
	for i, z := range zs {
		out[i] = toPair(z)
	}

	return out
}

type report struct {
	FastPath string    `yaml:"fast_path,omitempty" json:"fast_path,omitempty"`
	Nodes    []pair    `yaml:"nodes,flow" json:"nodes"`
	Weights  []pair    `yaml:"weights,flow" json:"weights"`
	Warnings []warning `yaml:"warnings,omitempty" json:"warnings,omitempty"`
	Timings  []timing  `yaml:"timings" json:"timings"`
	Geometry *geometry `yaml:"geometry,omitempty" json:"geometry,omitempty"`
}

type warning struct {
	Kind    string `yaml:"kind" json:"kind"`
	Stage   string `yaml:"stage" json:"stage"`
	Message string `yaml:"message" json:"message"`
}

type timing struct {
	Stage   string  `yaml:"stage" json:"stage"`
	Seconds float64 `yaml:"seconds" json:"seconds"`
}

type geometry struct {
	Stationary []stationary `yaml:"stationary" json:"stationary"`
	Valleys    []valley     `yaml:"valleys" json:"valleys"`
	Balls      []ball       `yaml:"balls" json:"balls"`
	Segments   []segment    `yaml:"segments" json:"segments"`
	Route      []piece      `yaml:"route" json:"route"`
}

type stationary struct {
	Z     pair `yaml:"z,flow" json:"z"`
	Order int  `yaml:"order" json:"order"`
}

type valley struct {
	Angle     float64 `yaml:"angle" json:"angle"`
	HalfWidth float64 `yaml:"half_width" json:"half_width"`
}

type ball struct {
	Center pair    `yaml:"center,flow" json:"center"`
	Radius float64 `yaml:"radius" json:"radius"`
}

type segment struct {
	Kind   string `yaml:"kind" json:"kind"`
	Valley int    `yaml:"valley" json:"valley"`
	Trace  []pair `yaml:"trace,flow" json:"trace"`
}

type piece struct {
	Kind      string  `yaml:"kind" json:"kind"`
	From      pair    `yaml:"from,flow" json:"from"`
	To        pair    `yaml:"to,flow" json:"to"`
	Reverse   bool    `yaml:"reverse" json:"reverse"`
	Magnitude float64 `yaml:"magnitude" json:"magnitude"`
}

func newReport(res *pathfinder.Result) report {
	rep := report{
		FastPath: res.FastPath,
		Nodes:    toPairs(res.Nodes),
		Weights:  toPairs(res.Weights),
	}
	for _, w := range res.Warnings {
		rep.Warnings = append(rep.Warnings, warning{Kind: w.Kind.String(), Stage: w.Stage, Message: w.Message})
	}
	for _, t := range res.Timings {
		rep.Timings = append(rep.Timings, timing{Stage: t.Stage, Seconds: t.Duration.Seconds()})
	}

	if g := res.Geometry; g != nil {
		geo := &geometry{}
		for _, s := range g.Stationary {
			geo.Stationary = append(geo.Stationary, stationary{Z: toPair(s.Z), Order: s.Order})
		}
		for _, v := range g.Valleys {
			geo.Valleys = append(geo.Valleys, valley{Angle: v.Angle, HalfWidth: v.HalfWidth})
		}
		for _, b := range g.Balls {
			geo.Balls = append(geo.Balls, ball{Center: toPair(b.Center), Radius: b.Radius})
		}
		for _, s := range g.Segments {
			seg := segment{Kind: s.Kind.String(), Valley: s.Valley}
			for _, pt := range s.Trace {
				seg.Trace = append(seg.Trace, toPair(pt.Z))
			}
			geo.Segments = append(geo.Segments, seg)
		}
		for _, in := range g.Route {
			geo.Route = append(geo.Route, piece{
				Kind:      in.Segment.Kind.String(),
				From:      toPair(in.From()),
				To:        toPair(in.To()),
				Reverse:   in.Reverse,
				Magnitude: in.Magnitude,
			})
		}
		rep.Geometry = geo
	}

	return rep
}

// writeReport encodes rep as YAML or JSON.
func writeReport(w io.Writer, rep report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
