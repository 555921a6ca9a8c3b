package crcstream

// Stats contains engine counters.
type Stats struct {
	// Steps is the number of Step calls since creation
	Steps uint64

	// WordsFolded is the number of enabled words folded into the accumulator
	WordsFolded uint64

	// FramesCompleted is the number of valid results produced
	FramesCompleted uint64

	// Violations is the number of sequencing violations detected
	Violations uint64
}

// Stats returns current engine statistics.
func (e *Engine) Stats() *Stats {
	s := e.eng.Stats()
	return &Stats{
		Steps:           s.Steps,
		WordsFolded:     s.WordsFolded,
		FramesCompleted: s.FramesCompleted,
		Violations:      s.Violations,
	}
}
