package pattern

// Section opens a titled block of the dashboard. Tab names a sub-view within
// the block (e.g. "Top 5"); it is empty for the block heading itself.
type Section struct {
	Title string
	Tab   string
}

func (s *Section) Type() PatternType { return PatternTypeSection }
