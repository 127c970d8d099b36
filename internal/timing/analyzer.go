package timing

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"squitterlog/internal/track"
)

// Histogram shape
const (
	InRangeBins = 10
	BurstBins   = 5
	TopBursts   = 3
)

// Target is the expected repetition interval of a message category
type Target struct {
	IntervalMS  float64
	ToleranceMS float64
}

// Low returns the lower bound of the in-range band
func (t Target) Low() float64 { return t.IntervalMS - t.ToleranceMS }

// High returns the upper bound of the in-range band
func (t Target) High() float64 { return t.IntervalMS + t.ToleranceMS }

// Protocol repetition rates per category
var targets = map[track.Category]Target{
	track.CategoryAirbornePosition: {IntervalMS: 500, ToleranceMS: 100},
	track.CategorySurfacePosition:  {IntervalMS: 500, ToleranceMS: 100},
	track.CategoryIdentification:   {IntervalMS: 5000, ToleranceMS: 200},
	track.CategoryVelocity:         {IntervalMS: 500, ToleranceMS: 100},
	track.CategoryStatus:           {IntervalMS: 5000, ToleranceMS: 200},
	track.CategoryTargetState:      {IntervalMS: 1250, ToleranceMS: 100},
	track.CategoryOperationStatus:  {IntervalMS: 2500, ToleranceMS: 100},
	track.CategoryAcquisition:      {IntervalMS: 1000, ToleranceMS: 200},
}

// TargetFor returns the repetition target of a category
func TargetFor(c track.Category) Target {
	return targets[c]
}

// Status describes whether an analysis produced statistics
type Status string

const (
	StatusOK               Status = "ok"
	StatusInsufficientData Status = "insufficient data"
	StatusNoValidIntervals Status = "no valid intervals"
)

// Burst is one populated bin of the too-frequent tail
type Burst struct {
	CenterMS float64
	Count    int
}

// Analysis is the interval distribution of one timestamp sequence
type Analysis struct {
	Status Status
	Target Target

	Intervals []float64 // ms, negative gaps removed

	InRange       int
	TooFrequent   int
	TooInfrequent int

	Histogram [InRangeBins]int
	BinEdges  [InRangeBins + 1]float64

	// Bursts ranks the most populated too-frequent bins, at most TopBursts
	Bursts []Burst

	MinMS    float64
	MaxMS    float64
	MeanMS   float64
	StdDevMS float64
}

// AnalyzeCategory analyses timestamps against the target of category c.
// The input is sorted on a copy and left untouched.
func AnalyzeCategory(timestamps []float64, c track.Category) Analysis {
	sorted := make([]float64, len(timestamps))
	copy(sorted, timestamps)
	sort.Float64s(sorted)
	return Analyze(sorted, TargetFor(c))
}

// Analyze computes the interval distribution of an ordered timestamp
// sequence (seconds) against target. Negative gaps are discarded.
func Analyze(timestamps []float64, target Target) Analysis {
	a := Analysis{Status: StatusInsufficientData, Target: target}

	low, high := target.Low(), target.High()
	width := (high - low) / InRangeBins
	for i := range a.BinEdges {
		a.BinEdges[i] = low + float64(i)*width
	}

	if len(timestamps) < 2 {
		return a
	}

	intervals := make([]float64, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		d := (timestamps[i] - timestamps[i-1]) * 1000
		if d >= 0 {
			intervals = append(intervals, d)
		}
	}
	if len(intervals) == 0 {
		a.Status = StatusNoValidIntervals
		return a
	}

	a.Status = StatusOK
	a.Intervals = intervals
	a.MinMS = floats.Min(intervals)
	a.MaxMS = floats.Max(intervals)
	a.MeanMS, a.StdDevMS = stat.PopMeanStdDev(intervals, nil)

	var fast []float64
	for _, d := range intervals {
		switch {
		case d < low:
			a.TooFrequent++
			fast = append(fast, d)
		case d > high:
			a.TooInfrequent++
		default:
			a.InRange++
			a.Histogram[binIndex(d, low, high, InRangeBins)]++
		}
	}

	a.Bursts = topBursts(fast)
	return a
}

// binIndex places v into one of n equal bins over [lo, hi]; hi falls in the last bin
func binIndex(v, lo, hi float64, n int) int {
	if hi <= lo {
		return 0
	}
	idx := int((v - lo) / (hi - lo) * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// topBursts bins the too-frequent tail into BurstBins over its own range and
// returns the TopBursts most populated bins by center, ties in bin order
func topBursts(fast []float64) []Burst {
	if len(fast) == 0 {
		return nil
	}

	lo, hi := floats.Min(fast), floats.Max(fast)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	var counts [BurstBins]int
	for _, v := range fast {
		counts[binIndex(v, lo, hi, BurstBins)]++
	}

	width := (hi - lo) / BurstBins
	bursts := make([]Burst, 0, BurstBins)
	for i, c := range counts {
		bursts = append(bursts, Burst{
			CenterMS: lo + (float64(i)+0.5)*width,
			Count:    c,
		})
	}

	sort.SliceStable(bursts, func(i, j int) bool {
		return bursts[i].Count > bursts[j].Count
	})

	top := make([]Burst, 0, TopBursts)
	for _, b := range bursts[:TopBursts] {
		if b.Count > 0 {
			top = append(top, b)
		}
	}
	return top
}
