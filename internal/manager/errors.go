package manager

// configMissingError signals that the required model config file is absent.
// It is not cached; the next acquisition retries construction.
type configMissingError struct{ path string }

func (e configMissingError) Error() string { return "config not found: " + e.path }

// ErrConfigMissing constructs a configMissingError.
func ErrConfigMissing(path string) error { return configMissingError{path: path} }

// IsConfigMissing reports whether err indicates a missing model config file.
func IsConfigMissing(err error) bool {
	_, ok := err.(configMissingError)
	return ok
}

// constructionError wraps any other failure while building the runtime
// handle, so the HTTP layer can return 503 instead of 500.
type constructionError struct{ err error }

func (e constructionError) Error() string { return "runtime construction failed: " + e.err.Error() }
func (e constructionError) Unwrap() error { return e.err }

// ErrConstruction wraps err as a construction failure.
func ErrConstruction(err error) error { return constructionError{err: err} }

// IsConstructionFailure reports whether err came from runtime construction.
func IsConstructionFailure(err error) bool {
	_, ok := err.(constructionError)
	return ok
}

// generationError wraps a failure raised by the runtime during generation,
// distinct from "the service never became ready".
type generationError struct{ err error }

func (e generationError) Error() string { return "generation failed: " + e.err.Error() }
func (e generationError) Unwrap() error { return e.err }

// ErrGeneration wraps err as a generation failure.
func ErrGeneration(err error) error { return generationError{err: err} }

// IsGenerationFailure reports whether err was raised during generation.
func IsGenerationFailure(err error) bool {
	_, ok := err.(generationError)
	return ok
}
