package constants

// JobStatus tracks an extraction job through the pipeline. Transitions:
// QUEUED -> RUNNING -> OCR_OK -> PARSE_OK, with FAILED reachable from any
// in-flight state.
type JobStatus string

const (
	JobQueued  JobStatus = "QUEUED"
	JobRunning JobStatus = "RUNNING"
	JobOCROK   JobStatus = "OCR_OK"
	JobParseOK JobStatus = "PARSE_OK"
	JobFailed  JobStatus = "FAILED"
)

// JobStatuses enumerates the valid values for persistence-level validation.
var JobStatuses = []string{
	string(JobQueued), string(JobRunning), string(JobOCROK),
	string(JobParseOK), string(JobFailed),
}
