package agents

// Routing labels. The router emits these and the dispatch table resolves them;
// they are also the stage names under which scratch results are stored.
const (
	LabelProfileUpdater     = "profile_updater"
	LabelJobFitAnalyst      = "job_fit_analyst"
	LabelCareerPath         = "career_path"
	LabelContentEnhancement = "content_enhancement"
)

// FallbackLabel handles general career questions and every query the router
// cannot classify.
const FallbackLabel = LabelCareerPath

// Labels lists every routing label in registration order.
func Labels() []string {
	return []string{
		LabelProfileUpdater,
		LabelJobFitAnalyst,
		LabelCareerPath,
		LabelContentEnhancement,
	}
}

// ValidLabel reports whether the label names a registered specialist.
func ValidLabel(label string) bool {
	switch label {
	case LabelProfileUpdater, LabelJobFitAnalyst, LabelCareerPath, LabelContentEnhancement:
		return true
	}
	return false
}
