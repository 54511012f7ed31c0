package atlas

import "fmt"

type scaleBand struct {
	term  string
	limit float64
	open  bool // no upper bound; the last band of every scale
}

// scales maps a statistic name to its descriptive bands. A value falls into
// the first band whose limit it does not exceed.
var scales = map[string][]scaleBand{
	"radius": {
		{term: "very small", limit: 5000},
		{term: "small", limit: 10000},
		{term: "medium", limit: 20000},
		{term: "large", limit: 30000},
		{term: "very large", open: true},
	},
	"interference": {
		{term: "none", limit: 0},
		{term: "low", limit: 100},
		{term: "moderate", limit: 300},
		{term: "high", limit: 500},
		{term: "very high", limit: 750},
		{term: "extreme", open: true},
	},
	"density": {
		{term: "none", limit: 0},
		{term: "low", limit: 100},
		{term: "moderate", limit: 250},
		{term: "high", limit: 450},
		{term: "very high", limit: 700},
		{term: "extreme", open: true},
	},
	"volatility": {
		{term: "none", limit: 0},
		{term: "low", limit: 50},
		{term: "moderate", limit: 100},
		{term: "high", limit: 200},
		{term: "very high", limit: 350},
		{term: "extreme", open: true},
	},
	"stars": {
		{term: "low", limit: 200},
		{term: "moderate", limit: 400},
		{term: "high", limit: 600},
		{term: "very high", open: true},
	},
}

// ScaleTerm describes the relative magnitude of a statistic in words.
func ScaleTerm(scale string, val float64) (string, error) {
	bands, ok := scales[scale]
	if !ok {
		return "", fmt.Errorf("unknown scale %q", scale)
	}
	for _, band := range bands {
		if band.open || val <= band.limit {
			return band.term, nil
		}
	}
	return bands[len(bands)-1].term, nil
}
