// Package report renders clustering results as JSON documents, optionally
// zstd-compressed.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"

	"github.com/TrevorS/hclust"
)

// dendrogramScale is the range rescaled dendrogram heights are mapped onto.
const dendrogramScale = 25

// Report is the document written by every subcommand.
type Report struct {
	RunID    string    `json:"run_id"`
	Command  string    `json:"command"`
	Created  time.Time `json:"created"`
	Cases    int       `json:"cases"`
	Labels   []string  `json:"labels,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
	Notes    []string  `json:"notes,omitempty"`

	Hierarchical *Hierarchical `json:"hierarchical,omitempty"`
	Proximity    *Proximity    `json:"proximity,omitempty"`
	TwoStep      *TwoStep      `json:"twostep,omitempty"`
}

// Stage is one row of an agglomeration schedule.
type Stage struct {
	Stage        int     `json:"stage"`
	Cluster1     int     `json:"cluster1"`
	Cluster2     int     `json:"cluster2"`
	Coefficient  float64 `json:"coefficient"`
	FirstAppear1 int     `json:"first_appear1"`
	FirstAppear2 int     `json:"first_appear2"`
	NextStage    int     `json:"next_stage"`
}

// Hierarchical is the output of the hierarchical subcommand.
type Hierarchical struct {
	Method        string        `json:"method"`
	Similarity    bool          `json:"similarity"`
	Stages        []Stage       `json:"stages"`
	LinkageMatrix [][4]float64  `json:"linkage_matrix"`
	Dendrogram    *Dendrogram   `json:"dendrogram,omitempty"`
	Icicle        []IcicleRow   `json:"icicle,omitempty"`
	Memberships   map[int][]int `json:"memberships,omitempty"`
	Errors        []string      `json:"errors,omitempty"`
}

// Dendrogram carries the leaf order and the node heights rescaled to
// [0, 25], indexed by node id.
type Dendrogram struct {
	LeafOrder []int     `json:"leaf_order"`
	Rescaled  []float64 `json:"rescaled_heights"`
}

// IcicleRow lists, for one cluster count, the cluster of every case or -1.
type IcicleRow struct {
	K        int   `json:"k"`
	Clusters []int `json:"clusters"`
}

// Proximity is the output of the proximity subcommand.
type Proximity struct {
	Measure string      `json:"measure"`
	Matrix  [][]float64 `json:"matrix"`
}

// TwoStep is the output of the twostep subcommand.
type TwoStep struct {
	K           int          `json:"k"`
	Labels      []int        `json:"labels"`
	SubClusters []SubCluster `json:"sub_clusters"`
	BIC         []float64    `json:"bic"`
	Threshold   float64      `json:"threshold"`
	Stages      []Stage      `json:"stages,omitempty"`
}

// SubCluster summarizes one CF entry.
type SubCluster struct {
	Size     int       `json:"size"`
	Cluster  int       `json:"cluster"`
	Centroid []float64 `json:"centroid"`
}

// New starts a report for command over ds.
func New(command string, ds *hclust.Dataset) *Report {
	return &Report{
		RunID:   uuid.NewString(),
		Command: command,
		Created: time.Now().UTC(),
		Cases:   ds.Len(),
		Labels:  ds.Labels(),
	}
}

// AddDiagnostics copies warnings and notes into the report.
func (r *Report) AddDiagnostics(d *hclust.Diagnostics) {
	if d == nil {
		return
	}
	r.Warnings = append(r.Warnings, d.Warnings...)
	r.Notes = append(r.Notes, d.Notes...)
}

func stages(s *hclust.Schedule) []Stage {
	if s == nil {
		return nil
	}
	out := make([]Stage, len(s.Stages))
	for i, st := range s.Stages {
		out[i] = Stage{
			Stage:        st.Stage,
			Cluster1:     st.Cluster1,
			Cluster2:     st.Cluster2,
			Coefficient:  st.Coefficient,
			FirstAppear1: st.FirstAppear1,
			FirstAppear2: st.FirstAppear2,
			NextStage:    st.NextStage,
		}
	}
	return out
}

// SetHierarchical records a hierarchical result. Output-level failures are
// kept as messages next to the outputs that succeeded.
func (r *Report) SetHierarchical(res *hclust.Result) {
	h := &Hierarchical{
		Method:        res.Schedule.Method,
		Similarity:    res.Schedule.Similarity,
		Stages:        stages(res.Schedule),
		LinkageMatrix: res.LinkageMatrix,
		Memberships:   res.Memberships,
	}
	if res.DendrogramErr != nil {
		h.Errors = append(h.Errors, res.DendrogramErr.Error())
	} else {
		h.Dendrogram = &Dendrogram{
			LeafOrder: res.Dendrogram.LeafOrder,
			Rescaled:  res.Dendrogram.Rescaled(dendrogramScale),
		}
	}
	if res.IcicleErr != nil {
		h.Errors = append(h.Errors, res.IcicleErr.Error())
	} else {
		for _, row := range res.Icicle.Rows {
			h.Icicle = append(h.Icicle, IcicleRow{K: row.K, Clusters: row.Clusters})
		}
	}
	if res.MembershipErr != nil {
		h.Errors = append(h.Errors, res.MembershipErr.Error())
	}
	r.Hierarchical = h
	r.AddDiagnostics(res.Diagnostics)
}

// SetProximity records a proximity matrix.
func (r *Report) SetProximity(measure hclust.Measure, m *mat.SymDense) {
	n := m.SymmetricDim()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = m.At(i, j)
		}
	}
	r.Proximity = &Proximity{Measure: string(measure), Matrix: rows}
}

// SetTwoStep records a two-step result.
func (r *Report) SetTwoStep(res *hclust.TwoStepResult) {
	ts := &TwoStep{
		K:         res.K,
		Labels:    res.Labels,
		BIC:       res.BIC,
		Threshold: res.Threshold,
		Stages:    stages(res.Schedule),
	}
	for i, e := range res.SubClusters {
		ts.SubClusters = append(ts.SubClusters, SubCluster{
			Size:     e.N,
			Cluster:  res.SubClusterLabels[i],
			Centroid: e.Centroid(),
		})
	}
	r.TwoStep = ts
	r.AddDiagnostics(res.Diagnostics)
}

// Write encodes r as JSON to w, through a zstd encoder when compress is set.
func Write(w io.Writer, r *Report, compress, indent bool) error {
	if !compress {
		return encode(w, r, indent)
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := encode(enc, r, indent); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close encoder: %w", err)
	}
	return nil
}

func encode(w io.Writer, r *Report, indent bool) error {
	je := json.NewEncoder(w)
	if indent {
		je.SetIndent("", "  ")
	}
	if err := je.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Compressed reports whether a report written to path is compressed: when
// forced, or when the path ends in .zst.
func Compressed(path string, force bool) bool {
	return force || strings.HasSuffix(path, ".zst")
}

// WriteFile writes r to path, compressing per Compressed.
func WriteFile(path string, r *Report, compress, indent bool) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	bufWriter := bufio.NewWriterSize(file, 1024*1024)
	if err := Write(bufWriter, r, Compressed(path, compress), indent); err != nil {
		return err
	}
	if err := bufWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	return file.Close()
}

// Read decodes a report written by Write.
func Read(rd io.Reader, compressed bool) (*Report, error) {
	if compressed {
		dec, err := zstd.NewReader(rd)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		rd = dec
	}
	r := &Report{}
	if err := json.NewDecoder(rd).Decode(r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return r, nil
}

// ReadFile decodes the report at path, decompressing .zst files.
func ReadFile(path string) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Read(file, Compressed(path, false))
}
