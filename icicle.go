package hclust

import "fmt"

// DisplayMode selects which cluster counts an icicle plot exposes.
type DisplayMode int

const (
	// DisplayAll shows every k from 1 to n.
	DisplayAll DisplayMode = iota
	// DisplayRange shows k = Start, Start+Step, ... up to Stop.
	DisplayRange
	// DisplaySingle shows only K.
	DisplaySingle
)

func (m DisplayMode) String() string {
	switch m {
	case DisplayAll:
		return "all"
	case DisplayRange:
		return "range"
	case DisplaySingle:
		return "single"
	}
	return fmt.Sprintf("DisplayMode(%d)", int(m))
}

// ParseDisplayMode resolves a display mode name: all, range or single.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch s {
	case "", "all":
		return DisplayAll, nil
	case "range":
		return DisplayRange, nil
	case "single":
		return DisplaySingle, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidWindow, s)
}

// DisplayWindow chooses the cluster counts shown by an icicle plot. A range
// with Stop 0 runs up to the number of cases.
type DisplayWindow struct {
	Mode              DisplayMode
	Start, Stop, Step int
	K                 int
}

// ks resolves the window against n items, in ascending order.
func (w DisplayWindow) ks(n int) ([]int, error) {
	switch w.Mode {
	case DisplayAll:
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out, nil
	case DisplayRange:
		if w.Stop == 0 {
			w.Stop = n
		}
		if w.Step < 1 || w.Start < 1 || w.Stop > n || w.Start > w.Stop {
			return nil, fmt.Errorf("%w: range start=%d stop=%d step=%d for %d cases",
				ErrInvalidWindow, w.Start, w.Stop, w.Step, n)
		}
		var out []int
		for k := w.Start; k <= w.Stop; k += w.Step {
			out = append(out, k)
		}
		return out, nil
	case DisplaySingle:
		if w.K < 1 || w.K > n {
			return nil, fmt.Errorf("%w: k=%d for %d cases", ErrInvalidWindow, w.K, n)
		}
		return []int{w.K}, nil
	}
	return nil, fmt.Errorf("%w: unknown mode %v", ErrInvalidWindow, w.Mode)
}

// IcicleSpan is the closed range of cluster counts [MinK, MaxK] for which a
// case sits in a cluster with more than one member. A case that never does
// has MinK = MaxK = n.
type IcicleSpan struct {
	Case       int
	MinK, MaxK int
}

// IcicleRow is the state of the plot at one displayed cluster count:
// Clusters[i] is the id of the multi-member cluster holding case i, or -1
// when case i is on its own.
type IcicleRow struct {
	K        int
	Clusters []int
}

// IciclePlot describes, for every cluster count, which cases belong to
// non-trivial clusters.
type IciclePlot struct {
	N      int
	Spans  []IcicleSpan
	Window DisplayWindow
	Rows   []IcicleRow
}

// BuildIcicle replays the schedule to derive, for every k in 1..n, which
// cases sit in multi-member clusters once the first n-k stages are applied.
func BuildIcicle(s *Schedule, w DisplayWindow) (*IciclePlot, error) {
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to build icicle plot", err)
	}
	n := s.N
	ks, err := w.ks(n)
	if err != nil {
		return nil, err
	}

	plot := &IciclePlot{N: n, Window: w, Spans: make([]IcicleSpan, n)}
	for i := range plot.Spans {
		plot.Spans[i] = IcicleSpan{Case: i, MinK: n, MaxK: n}
	}

	// Walk k downward from n; the replay only ever moves forward, and once
	// a case joins a multi-member cluster it stays in one.
	want := make(map[int]bool, len(ks))
	for _, k := range ks {
		want[k] = true
	}
	rows := make([]IcicleRow, 0, len(ks))
	rep := newReplayer(s)
	for k := n; k >= 1; k-- {
		rep.advanceTo(n - k)
		for i := 0; i < n; i++ {
			if rep.sizeOf(i) > 1 {
				sp := &plot.Spans[i]
				if sp.MaxK == n {
					sp.MaxK = k
				}
				sp.MinK = k
			}
		}
		if want[k] {
			row := IcicleRow{K: k, Clusters: make([]int, n)}
			for i := 0; i < n; i++ {
				if rep.sizeOf(i) > 1 {
					row.Clusters[i] = rep.clusterOf(i)
				} else {
					row.Clusters[i] = -1
				}
			}
			rows = append(rows, row)
		}
	}

	// Rows were collected from large k to small; present them ascending.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	plot.Rows = rows
	return plot, nil
}

// InCluster reports whether case i sits in a multi-member cluster at k.
func (p *IciclePlot) InCluster(i, k int) bool {
	sp := p.Spans[i]
	return sp.MaxK < p.N && k >= sp.MinK && k <= sp.MaxK
}
