package domain

// MaxBatchErrors caps the error sample carried in a BatchResult.
const MaxBatchErrors = 10

// BatchResult - struct representing the aggregated outcome of a dispatch
// batch. Every channel attempt counts once toward Successful or Failed.
type BatchResult struct {
	Label      string
	Successful int
	Failed     int
	Errors     []string
}

// RecordSuccess counts one delivered message.
func (b *BatchResult) RecordSuccess() {
	b.Successful++
}

// RecordFailure counts one failed message and keeps the first
// MaxBatchErrors error strings as a sample.
func (b *BatchResult) RecordFailure(msg string) {
	b.Failed++
	if len(b.Errors) < MaxBatchErrors {
		b.Errors = append(b.Errors, msg)
	}
}

// Total returns the number of counted attempts.
func (b *BatchResult) Total() int {
	return b.Successful + b.Failed
}
