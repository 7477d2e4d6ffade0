package hclust

// Stage is one row of an agglomeration schedule.
type Stage struct {
	// Stage is the 1-based stage number.
	Stage int
	// Cluster1 is the id of the surviving cluster, Cluster2 the id of the
	// cluster merged into it. Ids are stable original case indices: a
	// cluster carries the smallest case index it holds.
	Cluster1, Cluster2 int
	// Coefficient is the reported merge value: the merge distance, or the
	// similarity for similarity measures. For Ward linkage it is the running
	// within-cluster sum of squares (the cumulative sum of half of each
	// stage's merge distance).
	Coefficient float64
	// Distance is the merge distance the engine minimized at this stage,
	// before any cumulative bookkeeping or sign change.
	Distance float64
	// FirstAppear1 and FirstAppear2 are the stages at which each parent
	// cluster was last formed, 0 for an original singleton.
	FirstAppear1, FirstAppear2 int
	// NextStage is the stage at which the surviving cluster is merged again,
	// 0 for the final stage.
	NextStage int
}

// Schedule is the ordered, append-only record of an agglomeration run.
type Schedule struct {
	// N is the number of original items (cases or sub-clusters).
	N int
	// Method names the linkage that produced the schedule.
	Method string
	// Similarity is set when coefficients are similarities, so larger
	// coefficients mean closer clusters.
	Similarity bool
	Stages     []Stage
}

// Engine runs agglomerative clustering over a ClusterState.
type Engine struct {
	// Link derives distances for merged clusters.
	Link Linker
	// Method is recorded on the schedule.
	Method string
	// Cumulative reports Ward's running sum of squares as the coefficient.
	// It applies to distances only and is never combined with Similarity.
	Cumulative bool
	// Similarity marks a state that holds negated similarities; coefficients
	// are reported as the similarities themselves.
	Similarity bool
}

// NewEngine returns the Lance-Williams engine for the given linkage.
func NewEngine(method Linkage, similarity bool) Engine {
	return Engine{
		Link:       LanceWilliams(method),
		Method:     string(method),
		Cumulative: method == LinkageWard && !similarity,
		Similarity: similarity,
	}
}

// Run merges the closest pair of clusters until a single cluster remains
// and returns the n-1 stage schedule. Any stage that cannot find a pair
// aborts the run with a *StageError.
func (e Engine) Run(s *ClusterState) (*Schedule, error) {
	n := s.Len()
	if n < 2 {
		return nil, &StageError{Stage: 1, Remaining: n}
	}

	sched := &Schedule{
		N:          n,
		Method:     e.Method,
		Similarity: e.Similarity,
		Stages:     make([]Stage, 0, n-1),
	}
	// lastStage[id] is the most recent stage in which id survived a merge.
	lastStage := make(map[int]int, n)
	var cumulative float64

	for stage := 1; stage < n; stage++ {
		i, j, d, ok := s.FindClosest()
		if !ok {
			return nil, &StageError{Stage: stage, Remaining: s.Len()}
		}

		coef := d
		switch {
		case e.Cumulative:
			cumulative += d / 2
			coef = cumulative
		case e.Similarity:
			coef = -d
		}

		id1, id2 := s.ID(i), s.ID(j)
		st := Stage{
			Stage:        stage,
			Cluster1:     id1,
			Cluster2:     id2,
			Coefficient:  coef,
			Distance:     d,
			FirstAppear1: s.formed[i],
			FirstAppear2: s.formed[j],
		}
		if prev, ok := lastStage[id1]; ok {
			sched.Stages[prev-1].NextStage = stage
		}
		if prev, ok := lastStage[id2]; ok {
			sched.Stages[prev-1].NextStage = stage
		}

		s.Merge(i, j, e.Link)
		s.formed[i] = stage
		lastStage[id1] = stage
		delete(lastStage, id2)

		sched.Stages = append(sched.Stages, st)
	}

	return sched, nil
}

// Distances returns the merge distance of every stage in order.
func (s *Schedule) Distances() []float64 {
	out := make([]float64, len(s.Stages))
	for i, st := range s.Stages {
		out[i] = st.Distance
	}
	return out
}

// height returns the dendrogram height of a stage: the coefficient,
// negated for similarity schedules so that heights grow toward the root.
func (s *Schedule) height(st Stage) float64 {
	if s.Similarity {
		return -st.Coefficient
	}
	return st.Coefficient
}

// validate checks the structural invariants of the schedule: n-1 stages,
// consecutive stage numbers and ids that refer to live clusters.
func (s *Schedule) validate() error {
	if s == nil || s.N < 1 {
		return ErrInvalidSchedule
	}
	if len(s.Stages) != s.N-1 {
		return ErrInvalidSchedule
	}
	alive := make([]bool, s.N)
	for i := range alive {
		alive[i] = true
	}
	for k, st := range s.Stages {
		if st.Stage != k+1 {
			return ErrInvalidSchedule
		}
		a, b := st.Cluster1, st.Cluster2
		if a < 0 || b < 0 || a >= s.N || b >= s.N || a == b || !alive[a] || !alive[b] {
			return ErrInvalidSchedule
		}
		alive[b] = false
	}
	return nil
}
