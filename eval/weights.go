// Package eval scores boards and placements for the search tree, using
// the accumulated/transient split and default weight values from
// original_source/bot/src/evaluation/standard.rs.
package eval

// Weights holds every tunable coefficient recognized across the client
// boundary (spec.md §6's "weights recognized fields"). All numeric fields
// are plain int32-range integers; there is no dynamic reconfiguration once a
// worker is launched (spec.md §4.6).
type Weights struct {
	BackToBack     int `yaml:"back_to_back" mapstructure:"back_to_back"`
	Bumpiness      int `yaml:"bumpiness" mapstructure:"bumpiness"`
	BumpinessSq    int `yaml:"bumpiness_sq" mapstructure:"bumpiness_sq"`
	RowTransitions int `yaml:"row_transitions" mapstructure:"row_transitions"`
	Height         int `yaml:"height" mapstructure:"height"`
	TopHalf        int `yaml:"top_half" mapstructure:"top_half"`
	TopQuarter     int `yaml:"top_quarter" mapstructure:"top_quarter"`
	// Jeopardy scales a penalty proportional to incoming garbage lines
	// once the stack is high (spec.md §4.3), applied only when
	// TimedJeopardy is set.
	Jeopardy int `yaml:"jeopardy" mapstructure:"jeopardy"`

	CavityCells     int `yaml:"cavity_cells" mapstructure:"cavity_cells"`
	CavityCellsSq   int `yaml:"cavity_cells_sq" mapstructure:"cavity_cells_sq"`
	OverhangCells   int `yaml:"overhang_cells" mapstructure:"overhang_cells"`
	OverhangCellsSq int `yaml:"overhang_cells_sq" mapstructure:"overhang_cells_sq"`
	CoveredCells    int `yaml:"covered_cells" mapstructure:"covered_cells"`
	CoveredCellsSq  int `yaml:"covered_cells_sq" mapstructure:"covered_cells_sq"`

	Tslot        [4]int  `yaml:"tslot" mapstructure:"tslot"`
	WellDepth    int     `yaml:"well_depth" mapstructure:"well_depth"`
	MaxWellDepth int     `yaml:"max_well_depth" mapstructure:"max_well_depth"`
	WellColumn   [10]int `yaml:"well_column" mapstructure:"well_column"`

	B2BClear     int `yaml:"b2b_clear" mapstructure:"b2b_clear"`
	Clear1       int `yaml:"clear1" mapstructure:"clear1"`
	Clear2       int `yaml:"clear2" mapstructure:"clear2"`
	Clear3       int `yaml:"clear3" mapstructure:"clear3"`
	Clear4       int `yaml:"clear4" mapstructure:"clear4"`
	Tspin1       int `yaml:"tspin1" mapstructure:"tspin1"`
	Tspin2       int `yaml:"tspin2" mapstructure:"tspin2"`
	Tspin3       int `yaml:"tspin3" mapstructure:"tspin3"`
	MiniTspin1   int `yaml:"mini_tspin1" mapstructure:"mini_tspin1"`
	MiniTspin2   int `yaml:"mini_tspin2" mapstructure:"mini_tspin2"`
	PerfectClear int `yaml:"perfect_clear" mapstructure:"perfect_clear"`
	ComboGarbage int `yaml:"combo_garbage" mapstructure:"combo_garbage"`
	MoveTime     int `yaml:"move_time" mapstructure:"move_time"`
	WastedT      int `yaml:"wasted_t" mapstructure:"wasted_t"`

	UseBag bool `yaml:"use_bag" mapstructure:"use_bag"`
	// TimedJeopardy is the jeopardy feature's enable flag (spec.md §4.3's
	// "jeopardy (only if enabled)"): with it unset, Jeopardy is ignored
	// even if nonzero.
	TimedJeopardy bool `yaml:"timed_jeopardy" mapstructure:"timed_jeopardy"`
	StackPCDamage bool `yaml:"stack_pc_damage" mapstructure:"stack_pc_damage"`
}

// StandardWeights returns the "Standard" evaluator's tuned defaults,
// transcribed from Standard::default() in
// original_source/bot/src/evaluation/standard.rs.
func StandardWeights() Weights {
	return Weights{
		BackToBack:      52,
		Bumpiness:       -24,
		BumpinessSq:     -7,
		Height:          -39,
		TopHalf:         -150,
		TopQuarter:      -511,
		CavityCells:     -158,
		CavityCellsSq:   -7,
		OverhangCells:   -48,
		OverhangCellsSq: 1,
		CoveredCells:    -17,
		CoveredCellsSq:  -1,
		Tslot:           [4]int{8, 148, 192, 407},
		WellDepth:       57,
		MaxWellDepth:    17,
		WellColumn:      [10]int{20, 23, 20, 50, 59, 21, 59, 10, -10, 24},

		MoveTime:     -3,
		WastedT:      -152,
		B2BClear:     104,
		Clear1:       -143,
		Clear2:       -100,
		Clear3:       -58,
		Clear4:       390,
		Tspin1:       121,
		Tspin2:       410,
		Tspin3:       602,
		MiniTspin1:   -158,
		MiniTspin2:   -93,
		PerfectClear: 999,
		ComboGarbage: 150,
	}
}
