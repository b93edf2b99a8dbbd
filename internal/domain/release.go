package domain

// RepositoryTarget is one repository path from the command line.

type RepositoryTarget struct {
	Path  string
	Valid bool
}

// Outcome is how processing of a single repository ended.
type Outcome string

const (
	// OutcomeSkipped means the repository was not processed and the batch continued.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeTagged means a new tag was created and pushed.
	OutcomeTagged Outcome = "tagged"
)

// RepoResult records what happened to one repository. Conditions that abort the whole
// batch are reported as errors, never as a RepoResult.
type RepoResult struct {
	Path      string
	Outcome   Outcome
	Reason    string
	LatestTag string
	NewTag    string
}

// Skipped builds a result for a repository that was passed over.
func Skipped(path string, reason error) RepoResult {
	return RepoResult{Path: path, Outcome: OutcomeSkipped, Reason: reason.Error()}
}

// Tagged builds a result for a repository that received a new tag.
func Tagged(path, latest, next string) RepoResult {
	return RepoResult{Path: path, Outcome: OutcomeTagged, LatestTag: latest, NewTag: next}
}
