/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package config

// searchConfiguration is a data structure to hold the configuration of an
// instance of a search.
type searchConfiguration struct {
	// Quiescence search
	UseQuiescence bool
	UseQSStandpat bool
	UseSEE        bool

	// Move ordering
	UsePVS       bool
	UseKiller    bool
	UseIID       bool
	IIDDepth     int
	IIDReduction int

	// Transposition Table
	UseTT      bool
	TTSize     int
	UseTTMove  bool
	UseTTValue bool
	UseQSTT    bool
	UseEvalTT  bool

	// Prunings pre move gen
	UseMDP        bool
	UseRazor      bool
	UseRFP        bool
	UseNullMove   bool
	NmpDepth      int
	NmpReduction  int
	UseProbCut    bool
	ProbCutDepth  int
	ProbCutMargin int

	// Extensions of search depth
	UseExt         bool
	UseCheckExt    bool
	UseThreatExt   bool
	UseExtAddDepth bool

	// Prunings after move generation but before making the move
	UseFP            bool
	UseLmp           bool
	UseLmr           bool
	LmrDepth         int
	LmrMovesSearched int

	// Move ordering history heuristics
	UseHistoryCounter bool
	UseCounterMoves   bool

	// Aspiration window
	UseAspiration    bool
	AspirationWindow int

	// UCI-facing options
	DefaultDepth  int
	PonderEnabled bool
}

// sets defaults which might be overwritten by config file
func init() {
	Settings.Search.UseQuiescence = true
	Settings.Search.UseQSStandpat = true
	Settings.Search.UseSEE = true

	Settings.Search.UsePVS = true
	Settings.Search.UseKiller = true
	Settings.Search.UseIID = true
	Settings.Search.IIDDepth = 6
	Settings.Search.IIDReduction = 2

	Settings.Search.UseTT = true
	Settings.Search.TTSize = 64
	Settings.Search.UseTTMove = true
	Settings.Search.UseTTValue = true
	Settings.Search.UseQSTT = true
	Settings.Search.UseEvalTT = false

	Settings.Search.UseMDP = true
	Settings.Search.UseRazor = true
	Settings.Search.UseRFP = false
	Settings.Search.UseNullMove = true
	Settings.Search.NmpDepth = 3
	Settings.Search.NmpReduction = 2
	Settings.Search.UseProbCut = true
	Settings.Search.ProbCutDepth = 5
	Settings.Search.ProbCutMargin = 200

	Settings.Search.UseExt = true
	Settings.Search.UseCheckExt = true
	Settings.Search.UseThreatExt = false
	Settings.Search.UseExtAddDepth = true

	Settings.Search.UseFP = false
	Settings.Search.UseLmp = true
	Settings.Search.UseLmr = true
	Settings.Search.LmrDepth = 3
	Settings.Search.LmrMovesSearched = 3

	Settings.Search.UseHistoryCounter = true
	Settings.Search.UseCounterMoves = true

	Settings.Search.UseAspiration = true
	Settings.Search.AspirationWindow = 20

	Settings.Search.DefaultDepth = 6
	Settings.Search.PonderEnabled = true
}

// set defaults for configurations here in case a configuration
// is not available from the config file
func setupSearch() {
}
