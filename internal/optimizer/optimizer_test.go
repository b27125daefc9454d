package optimizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"adstxt-validator/internal/models"
	"adstxt-validator/internal/parser"
)

func newTestOptimizer() Service {
	return New(parser.NewParser(nil))
}

func TestOptimizer_RemovesDuplicateRecords(t *testing.T) {
	o := newTestOptimizer()

	content := "google.com, pub-1, DIRECT\n" +
		"google.com, pub-1, DIRECT\n" +
		"appnexus.com, 123, RESELLER"

	result := o.Optimize(content, "", models.OptimizeSteps{DuplicateAction: models.ActionRemove})

	assert.Equal(t, "google.com, pub-1, DIRECT\nappnexus.com, 123, RESELLER", result.OptimizedContent)
	assert.Equal(t, 3, result.Stats.OriginalLines)
	assert.Equal(t, 2, result.Stats.FinalLines)
	assert.Equal(t, 1, result.Stats.RemovedCount)
	assert.Equal(t, 0, result.Stats.ErrorsFound)
}

func TestOptimizer_DuplicateDetectionIsCaseInsensitive(t *testing.T) {
	o := newTestOptimizer()

	content := "google.com, pub-1, DIRECT\nGOOGLE.COM, pub-1, direct"
	result := o.Optimize(content, "", models.OptimizeSteps{DuplicateAction: models.ActionRemove})

	assert.Equal(t, "google.com, pub-1, DIRECT", result.OptimizedContent)
	assert.Equal(t, 1, result.Stats.RemovedCount)
}

func TestOptimizer_CommentsDuplicates(t *testing.T) {
	o := newTestOptimizer()

	content := "google.com, pub-1, DIRECT\ngoogle.com, pub-1, DIRECT"
	result := o.Optimize(content, "", models.OptimizeSteps{DuplicateAction: models.ActionComment})

	lines := strings.Split(result.OptimizedContent, "\n")
	assert.Equal(t, "google.com, pub-1, DIRECT", lines[0])
	assert.Equal(t, "# DUPLICATE: google.com, pub-1, DIRECT", lines[1])
	assert.Equal(t, 0, result.Stats.RemovedCount, "commented lines are not removed")
}

func TestOptimizer_BlankAndCommentLinesSurvive(t *testing.T) {
	o := newTestOptimizer()

	content := "# header comment\n\ngoogle.com, pub-1, DIRECT\n\n# footer"
	result := o.Optimize(content, "", models.OptimizeSteps{
		RemoveErrors:    true,
		InvalidAction:   models.ActionRemove,
		DuplicateAction: models.ActionRemove,
	})

	assert.Equal(t, content, result.OptimizedContent)
	assert.Equal(t, 0, result.Stats.RemovedCount)
}

func TestOptimizer_RemovesInvalidLines(t *testing.T) {
	o := newTestOptimizer()

	content := "google.com, pub-1, DIRECT\nnot a valid line\ngoogle.com, pub-2, RESELLER"
	result := o.Optimize(content, "", models.OptimizeSteps{
		RemoveErrors:  true,
		InvalidAction: models.ActionRemove,
	})

	assert.Equal(t, "google.com, pub-1, DIRECT\ngoogle.com, pub-2, RESELLER", result.OptimizedContent)
	assert.Equal(t, 1, result.Stats.RemovedCount)
	assert.Equal(t, 1, result.Stats.ErrorsFound)
}

func TestOptimizer_CommentsInvalidLinesWithReason(t *testing.T) {
	o := newTestOptimizer()

	content := "google.com, pub-1, INVALID_RELATION"
	result := o.Optimize(content, "", models.OptimizeSteps{
		RemoveErrors:  true,
		InvalidAction: models.ActionComment,
	})

	assert.Equal(t, "# INVALID: google.com, pub-1, INVALID_RELATION (INVALID_RELATIONSHIP)", result.OptimizedContent)
	assert.Equal(t, 0, result.Stats.RemovedCount)
	assert.Equal(t, 1, result.Stats.ErrorsFound)
}

func TestOptimizer_InvalidLinesKeptWithoutRemoveErrors(t *testing.T) {
	o := newTestOptimizer()

	content := "broken line\ngoogle.com, pub-1, DIRECT"
	result := o.Optimize(content, "", models.OptimizeSteps{InvalidAction: models.ActionRemove})

	assert.Equal(t, content, result.OptimizedContent)
	assert.Equal(t, 1, result.Stats.ErrorsFound, "errorsFound still counts what was wrong")
}

func TestOptimizer_DuplicateVariables(t *testing.T) {
	o := newTestOptimizer()

	content := "CONTACT=ads@example.com\nCONTACT=ads@example.com\nCONTACT=other@example.com"
	result := o.Optimize(content, "", models.OptimizeSteps{DuplicateAction: models.ActionRemove})

	assert.Equal(t, "CONTACT=ads@example.com\nCONTACT=other@example.com", result.OptimizedContent)
	assert.Equal(t, 1, result.Stats.RemovedCount)
}

func TestOptimizer_ExtensionStepsAreAccepted(t *testing.T) {
	o := newTestOptimizer()

	content := "google.com, pub-1, DIRECT"
	result := o.Optimize(content, "", models.OptimizeSteps{
		FixOwnerDomain: true,
		VerifySellers:  true,
	})

	// Declared-but-unimplemented steps no-op rather than erroring.
	assert.Equal(t, content, result.OptimizedContent)
}

func TestOptimizer_TrailingNewlineCounted(t *testing.T) {
	o := newTestOptimizer()

	content := "google.com, pub-1, DIRECT\n"
	result := o.Optimize(content, "", models.OptimizeSteps{})

	assert.Equal(t, 2, result.Stats.OriginalLines, "trailing empty segment counts")
	assert.Equal(t, content, result.OptimizedContent)
	assert.Equal(t, 2, result.Stats.FinalLines)
}
