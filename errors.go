package topicmind

import "errors"

var (
	// ErrModelNotLoaded is returned by every predict operation invoked
	// before a successful Load. It is distinct from a genuine "no topic
	// found" result, which surfaces as the outlier sentinel.
	ErrModelNotLoaded = errors.New("model not loaded")

	// ErrNoDocuments is returned when Train is called with an empty
	// document list.
	ErrNoDocuments = errors.New("no documents to train on")

	// ErrTooFewDocuments is returned when the corpus cannot satisfy the
	// configured minimum cluster size. Training is all-or-nothing: no
	// partial result is produced.
	ErrTooFewDocuments = errors.New("too few documents for configured minimum cluster size")

	// ErrModelNotTrained is returned by SaveModel before a successful
	// Train.
	ErrModelNotTrained = errors.New("model has not been trained")
)
