package model

type Source string

const (
	SourceGraph         Source = "graph"
	SourceProbabilistic Source = "probabilistic"
)

type DiagnosisResult struct {
	Disease Entity  `json:"disease"`
	Score   float64 `json:"score"`
	Source  Source  `json:"source"`
}

// Report is the dual diagnosis output. The two lists come from independent
// engines and are never reconciled; callers compare them side by side.
// GraphUnavailable is set when the graph store could not be reached and the
// probabilistic half answered alone.
type Report struct {
	GraphResults         []DiagnosisResult `json:"graph_results"`
	ProbabilisticResults []DiagnosisResult `json:"probabilistic_results"`
	GraphUnavailable     bool              `json:"graph_unavailable,omitempty"`
}
