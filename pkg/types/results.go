package types

// ImportResult reports the outcome of importing a single declared path.
// A batch import returns one entry per selected path; a failed item
// never aborts the rest of the batch.
type ImportResult struct {
	// Path is the declared path as listed in the domain
	Path string

	// Copied is true when live content was copied into storage
	Copied bool

	// Linked is true when the live path now points at storage
	Linked bool

	// Skipped is true when the path was already linked (no-op)
	Skipped bool

	// Err holds the per-item failure, if any
	Err error
}

// Success reports whether the item ended in a usable state
func (r ImportResult) Success() bool {
	return r.Err == nil
}

// PackageResult reports the outcome of one package manager invocation
type PackageResult struct {
	// Package is the package name passed to the manager
	Package string

	// Output is the captured stdout, if any
	Output string

	// Err holds the per-package failure, if any
	Err error
}

// Success reports whether the manager invocation succeeded
func (r PackageResult) Success() bool {
	return r.Err == nil
}

// Partition splits declared packages by installation state,
// preserving declaration order within each group
type Partition struct {
	Installed    []string
	NotInstalled []string
}
