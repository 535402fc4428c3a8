// Package eval computes the 18-component evaluation vector used to score a
// candidate program against every demonstration example of a problem:
// {pic, pattern} x {reach, better, worse} x {min, mean, max}.
package eval

// Sentinel scores, used in place of a genuine reach score when a produced
// grid can be judged without per-pixel comparison.
const (
	// FullMatch marks an exact match between the produced and expected
	// grid.
	FullMatch = 5.0
	// WrongShape marks a produced grid whose dimensions do not match the
	// expected grid at all, making pixel-level comparison meaningless.
	WrongShape = -5.0
)

// Metric names one of the three per-kind scores.
type Metric int

const (
	MetricReach Metric = iota
	MetricBetter
	MetricWorse
)

// Reduce names one of the three reductions applied across demo examples.
type Reduce int

const (
	ReduceMin Reduce = iota
	ReduceMean
	ReduceMax
)

// Kind distinguishes the exact-color "pic" score from the background/
// foreground "pattern" score.
type Kind int

const (
	KindPic Kind = iota
	KindPattern
)

// Length is the size of a Vector: 2 kinds x 3 metrics x 3 reductions.
const Length = 18

// Vector is the flat 18-float evaluation vector. Index layout matches
// SearchConf's IDX_* ordering exactly (IDX_PIC_REACH_MIN=0 .. IDX_PIC_
// BETTER_MIN=1 .. IDX_PAT_REACH_MIN=3 .. IDX_PIC_REACH_MEAN=6 ..
// IDX_PIC_REACH_MAX=12): reduction is the outermost axis, then kind, then
// metric.
type Vector [Length]float64

// Index computes the flat offset for (kind, metric, reduce).
func Index(kind Kind, metric Metric, reduce Reduce) int {
	return int(reduce)*6 + int(kind)*3 + int(metric)
}

// Get returns the named component.
func (v Vector) Get(kind Kind, metric Metric, reduce Reduce) float64 {
	return v[Index(kind, metric, reduce)]
}

// Names are the 18 component names, in Vector order, used as the
// expr-lang environment for the heuristic reward formula.
var Names = buildNames()

func buildNames() [Length]string {
	kindNames := [2]string{"pic", "pat"}
	metricNames := [3]string{"reach", "better", "worse"}
	reduceNames := [3]string{"min", "mean", "max"}

	var names [Length]string
	for k := 0; k < 2; k++ {
		for m := 0; m < 3; m++ {
			for red := 0; red < 3; red++ {
				names[Index(Kind(k), Metric(m), Reduce(red))] = kindNames[k] + "_" + metricNames[m] + "_" + reduceNames[red]
			}
		}
	}
	return names
}

// Env converts v into the map expr-lang compiles and runs the reward
// formula against, keyed by Names.
func (v Vector) Env() map[string]any {
	env := make(map[string]any, Length)
	for i, name := range Names {
		env[name] = v[i]
	}
	return env
}
