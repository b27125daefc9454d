package models

// LineAction selects what the optimizer does with an offending line.
type LineAction string

const (
	ActionRemove  LineAction = "remove"
	ActionComment LineAction = "comment"
)

// OptimizeSteps configures an optimizer run. FixOwnerDomain and
// VerifySellers are accepted for forward compatibility and currently no-op.
type OptimizeSteps struct {
	RemoveErrors    bool       `json:"removeErrors"`
	InvalidAction   LineAction `json:"invalidAction,omitempty"`
	DuplicateAction LineAction `json:"duplicateAction,omitempty"`
	FixOwnerDomain  bool       `json:"fixOwnerDomain,omitempty"`
	VerifySellers   bool       `json:"verifySellers,omitempty"`
}

// OptimizeStats summarizes what an optimizer run did. Line counts are
// newline-split segment counts, trailing empty segment included.
type OptimizeStats struct {
	OriginalLines int `json:"originalLines"`
	FinalLines    int `json:"finalLines"`
	RemovedCount  int `json:"removedCount"`
	ErrorsFound   int `json:"errorsFound"`
}

// OptimizeResult is the rewritten file body plus run statistics.
type OptimizeResult struct {
	OptimizedContent string        `json:"optimizedContent"`
	Stats            OptimizeStats `json:"stats"`
}
