// Package jumpmap renders the hyperspace jump network of a compiled
// database as an SVG map. Systems are drawn as labelled dots; two-way jumps
// as solid lines and one-way jumps as dashed lines with an arrowhead at the
// midpoint. Output depends only on the database contents, so regenerating
// the map from the same data gives identical bytes.
package jumpmap

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/perey/naevtools/internal/compiler"
	"github.com/perey/naevtools/internal/dataset"
)

// Options controls the appearance of the map.
type Options struct {
	Margin       float64
	SystemSize   float64
	SystemColour string
	JumpColour   string
	LabelColour  string
	LabelFont    string
}

// DefaultOptions returns the stock appearance: orange systems, grey jumps,
// black serif labels.
func DefaultOptions() Options {
	return Options{
		Margin:       10,
		SystemSize:   5,
		SystemColour: "orange",
		JumpColour:   "grey",
		LabelColour:  "black",
		LabelFont:    "serif",
	}
}

// labelSpace leaves room on the right edge for the longest system labels.
const labelSpace = 200

type edge struct {
	from, to dataset.Coords
}

type mapData struct {
	xmin, xmax, ymin, ymax float64
	names                  []string
	locations              map[string]dataset.Coords
	twoWay                 []edge
	oneWay                 []edge
}

// collect extracts the mappable data: system locations, map bounds, and the
// jump network split into two-way and one-way links.
func collect(systems []*dataset.SSystem) mapData {
	data := mapData{locations: make(map[string]dataset.Coords, len(systems))}

	// A jump that is exit-only cannot be entered from its own system, so it
	// only counts as the return leg of the far end's jump.
	enterable := make(map[string]map[string]bool, len(systems))
	for _, sys := range systems {
		data.names = append(data.names, sys.Name)
		data.locations[sys.Name] = sys.Pos
		targets := make(map[string]bool, len(sys.Jumps))
		for _, jump := range sys.Jumps {
			if !jump.ExitOnly {
				targets[jump.Target] = true
			}
		}
		enterable[sys.Name] = targets
		data.xmin = min(data.xmin, sys.Pos.X)
		data.xmax = max(data.xmax, sys.Pos.X)
		data.ymin = min(data.ymin, sys.Pos.Y)
		data.ymax = max(data.ymax, sys.Pos.Y)
	}

	// systems is already sorted by name, so the edge lists come out in a
	// stable order.
	for _, sys := range systems {
		for _, jump := range sys.Jumps {
			if !enterable[sys.Name][jump.Target] {
				continue
			}
			link := edge{from: sys.Pos, to: data.locations[jump.Target]}
			if enterable[jump.Target][sys.Name] {
				data.twoWay = append(data.twoWay, link)
				delete(enterable[jump.Target], sys.Name)
			} else {
				data.oneWay = append(data.oneWay, link)
			}
		}
	}
	return data
}

// Write renders the map for every system in the database.
func Write(ctx context.Context, reader *compiler.Reader, w io.Writer, opts Options) error {
	systems, err := reader.Systems(ctx)
	if err != nil {
		return err
	}
	return render(w, collect(systems), opts)
}

func render(w io.Writer, data mapData, opts Options) error {
	viewX := data.xmin - opts.Margin
	viewY := -data.ymax - opts.Margin
	viewW := data.xmax - data.xmin + 2*opts.Margin + labelSpace
	viewH := data.ymax - data.ymin + 2*opts.Margin

	pr := &printer{w: w}
	pr.printf("<?xml version=\"1.0\"?>\n")
	pr.printf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.2\" "+
		"baseProfile=\"tiny\" width=\"%spx\" height=\"%spx\" viewBox=\"%s %s %s %s\">\n",
		num(viewW), num(viewH), num(viewX), num(viewY), num(viewW), num(viewH))
	pr.printf("<title>Naev universe map</title>\n")

	pr.printf("<defs>\n")
	pr.printf("<marker id=\"arrow\" orient=\"auto\" viewBox=\"-1 -2 4 4\"\n")
	pr.printf("        markerWidth=\"8\" markerHeight=\"8\">\n")
	pr.printf("    <path d=\"M 0,0 -1,-2 3,0 -1,2 Z\" fill=\"%s\"/>\n", opts.JumpColour)
	pr.printf("</marker>\n")
	pr.printf("<style type=\"text/css\"><![CDATA[\n")
	pr.printf("    g#jumps > path {stroke: %s; stroke-width: 1}\n", opts.JumpColour)
	pr.printf("    g#jumps > path.oneway {stroke-dasharray: 2,1;\n")
	pr.printf("                           marker-mid: url(#arrow)}\n")
	pr.printf("    g#systems > circle {stroke: none; fill: %s}\n", opts.SystemColour)
	pr.printf("    g#systems > text {stroke: none; fill: %s; font-family: %s}\n",
		opts.LabelColour, opts.LabelFont)
	pr.printf("]]></style>\n")
	pr.printf("</defs>\n\n")

	pr.printf("<g id=\"jumps\">\n")
	for _, link := range data.twoWay {
		pr.printf("    <path d=\"M%s,%s %s,%s\"/>\n",
			num(link.from.X), num(-link.from.Y), num(link.to.X), num(-link.to.Y))
	}
	for _, link := range data.oneWay {
		// Two equal segments put the path's midpoint, and so the arrowhead,
		// halfway along the jump.
		dx := (link.to.X - link.from.X) / 2
		dy := -(link.to.Y - link.from.Y) / 2
		pr.printf("    <path class=\"oneway\"\n")
		pr.printf("          d=\"M%s,%s l%s,%s %s,%s\"/>\n",
			num(link.from.X), num(-link.from.Y), num(dx), num(dy), num(dx), num(dy))
	}
	pr.printf("</g>\n\n")

	pr.printf("<g id=\"systems\">\n")
	for _, name := range data.names {
		loc := data.locations[name]
		pr.printf("    <circle cx=\"%s\" cy=\"%s\" r=\"%s\"/>\n",
			num(loc.X), num(-loc.Y), num(opts.SystemSize))
		pr.printf("    <text x=\"%s\" y=\"%s\" font-size=\"%s\"\n",
			num(loc.X+2*opts.SystemSize), num(-loc.Y+opts.SystemSize), num(3*opts.SystemSize))
		pr.printf("    >%s</text>\n", xmlEscape(name))
	}
	pr.printf("</g>\n\n")

	pr.printf("</svg>\n")
	return pr.err
}

// printer accumulates the first write error so rendering reads linearly.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func num(v float64) string {
	if v == 0 {
		// Fold negative zero, which otherwise renders as "-0".
		v = 0
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func xmlEscape(s string) string {
	var out []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
