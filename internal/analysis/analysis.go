// Package analysis defines the shared types produced by the pattern
// detection engine: extremum points, pattern occurrences and the aggregated
// scan report.
package analysis

// ExtremumKind distinguishes local maxima from local minima.
type ExtremumKind int

const (
	Peak ExtremumKind = iota
	Trough
)

func (k ExtremumKind) String() string {
	if k == Peak {
		return "peak"
	}
	return "trough"
}

// ExtremumPoint is a local extremum located in a price series.
type ExtremumPoint struct {
	Index int
	Kind  ExtremumKind
	Value float64
}

// PatternKind discriminates pattern occurrence variants.
type PatternKind string

const (
	KindDoubleBottom            PatternKind = "double_bottom"
	KindDoubleTop               PatternKind = "double_top"
	KindHeadAndShoulders        PatternKind = "head_and_shoulders"
	KindInverseHeadAndShoulders PatternKind = "inverse_head_and_shoulders"
	KindTriangle                PatternKind = "triangle"
	KindSupport                 PatternKind = "support"
	KindResistance              PatternKind = "resistance"
)

// Occurrence is the interface all pattern occurrence variants satisfy. Each
// variant carries exactly its defining fields; the kind is discriminated at
// the type level, not by runtime key inspection.
type Occurrence interface {
	Kind() PatternKind
	// Indices returns the ordered defining extremum indices of the occurrence.
	Indices() []int
}

// DoubleBottom is two troughs at matching price levels with an intervening
// rise and a confirming close after the second trough.
type DoubleBottom struct {
	First  int
	Second int
}

func (DoubleBottom) Kind() PatternKind { return KindDoubleBottom }
func (p DoubleBottom) Indices() []int  { return []int{p.First, p.Second} }

// DoubleTop is the bearish mirror of DoubleBottom.
type DoubleTop struct {
	First  int
	Second int
}

func (DoubleTop) Kind() PatternKind { return KindDoubleTop }
func (p DoubleTop) Indices() []int  { return []int{p.First, p.Second} }

// HeadAndShoulders is three peaks with the head above both shoulders and a
// confirmed break below the neckline troughs.
type HeadAndShoulders struct {
	LeftShoulder  int
	LeftTrough    int
	Head          int
	RightTrough   int
	RightShoulder int
}

func (HeadAndShoulders) Kind() PatternKind { return KindHeadAndShoulders }
func (p HeadAndShoulders) Indices() []int {
	return []int{p.LeftShoulder, p.LeftTrough, p.Head, p.RightTrough, p.RightShoulder}
}

// InverseHeadAndShoulders is the bullish mirror of HeadAndShoulders.
type InverseHeadAndShoulders struct {
	LeftShoulder  int
	LeftPeak      int
	Head          int
	RightPeak     int
	RightShoulder int
}

func (InverseHeadAndShoulders) Kind() PatternKind { return KindInverseHeadAndShoulders }
func (p InverseHeadAndShoulders) Indices() []int {
	return []int{p.LeftShoulder, p.LeftPeak, p.Head, p.RightPeak, p.RightShoulder}
}

// TriangleType distinguishes the three triangle variants.
type TriangleType string

const (
	TriangleSymmetric  TriangleType = "symmetric"
	TriangleAscending  TriangleType = "ascending"
	TriangleDescending TriangleType = "descending"
)

// Triangle is a converging (or horizontally bounded) trend-line formation.
// ConvergeX/ConvergeY give the projected apex; Breakout reports whether the
// close after the last defining point escaped the formation.
type Triangle struct {
	Type      TriangleType
	Points    [5]int
	ConvergeX int
	ConvergeY float64
	Breakout  bool
}

func (Triangle) Kind() PatternKind { return KindTriangle }
func (p Triangle) Indices() []int  { return p.Points[:] }

// Level is a confirmed support or resistance level anchored at a defining
// extremum. Touches counts the other series points within threshold of the
// level price.
type Level struct {
	LevelKind PatternKind // KindSupport or KindResistance
	Index     int
	Price     float64
	Touches   int
}

func (l Level) Kind() PatternKind { return l.LevelKind }
func (l Level) Indices() []int    { return []int{l.Index} }

// Report aggregates every detector's output for one series snapshot.
type Report struct {
	DoubleBottoms           []DoubleBottom
	DoubleTops              []DoubleTop
	HeadAndShoulders        []HeadAndShoulders
	InverseHeadAndShoulders []InverseHeadAndShoulders
	Triangles               []Triangle
	Supports                []Level
	Resistances             []Level
}

// Occurrences flattens the report into a single slice for consumers that
// treat all pattern kinds uniformly (persistence, rendering).
func (r *Report) Occurrences() []Occurrence {
	var out []Occurrence
	for _, p := range r.DoubleBottoms {
		out = append(out, p)
	}
	for _, p := range r.DoubleTops {
		out = append(out, p)
	}
	for _, p := range r.HeadAndShoulders {
		out = append(out, p)
	}
	for _, p := range r.InverseHeadAndShoulders {
		out = append(out, p)
	}
	for _, p := range r.Triangles {
		out = append(out, p)
	}
	for _, l := range r.Supports {
		out = append(out, l)
	}
	for _, l := range r.Resistances {
		out = append(out, l)
	}
	return out
}

// Total returns the number of occurrences in the report.
func (r *Report) Total() int {
	return len(r.DoubleBottoms) + len(r.DoubleTops) +
		len(r.HeadAndShoulders) + len(r.InverseHeadAndShoulders) +
		len(r.Triangles) + len(r.Supports) + len(r.Resistances)
}
