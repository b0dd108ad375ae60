package loan

// linear maps each stage to the one stage advanceStage may move it into.
// Amendment only leaves through its edge back to Active; Matured has no exit.
var linear = map[Stage]Stage{
	StageMandated:           StageCreditApproved,
	StageCreditApproved:     StageDocumentation,
	StageDocumentation:      StageCPPending,
	StageCPPending:          StageActive,
	StageActive:             StageCovenantMonitoring,
	StageCovenantMonitoring: StageMatured,
	StageAmendment:          StageActive,
}

// NextStage reports the stage advanceStage moves a loan into.
func NextStage(current Stage) (Stage, bool) {
	next, ok := linear[current]
	return next, ok
}

// CanAmend reports whether an amendment may be opened from the stage.
func CanAmend(current Stage) bool {
	return current == StageActive || current == StageCovenantMonitoring
}

// CanMature reports whether the maturity shortcut applies to the stage.
func CanMature(current Stage) bool {
	return current == StageActive || current == StageCovenantMonitoring
}

func (s Stage) Terminal() bool { return s == StageMatured }

func (s Stage) Valid() bool {
	switch s {
	case StageMandated, StageCreditApproved, StageDocumentation, StageCPPending,
		StageActive, StageCovenantMonitoring, StageAmendment, StageMatured:
		return true
	}
	return false
}

// ValidStep reports whether from -> to is an edge of the lifecycle graph,
// counting the amendment and maturity side entries.
func ValidStep(from, to Stage) bool {
	if next, ok := NextStage(from); ok && next == to {
		return true
	}
	switch to {
	case StageAmendment:
		return CanAmend(from)
	case StageMatured:
		return CanMature(from)
	}
	return false
}
