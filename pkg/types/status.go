package types

// LinkStatus is the synchronization state of a (domain, family) pair.
// The four statuses are mutually exclusive.
type LinkStatus string

const (
	// StatusIncompatible means the family has no symlink paths declared
	StatusIncompatible LinkStatus = "incompatible"

	// StatusNotImported means none of the declared paths exist under storage
	StatusNotImported LinkStatus = "not_imported"

	// StatusPartiallyImported means some but not all paths exist under storage
	StatusPartiallyImported LinkStatus = "partially_imported"

	// StatusFullyImported means every declared path exists under storage
	StatusFullyImported LinkStatus = "fully_imported"
)

// LinkReport is the result of classifying one domain against a family.
// Paths are reported in their declared (portable) form.
type LinkReport struct {
	Domain string
	Family Family
	Status LinkStatus

	// Imported holds declared paths already present under storage
	Imported []string

	// Missing holds declared paths with no storage counterpart yet
	Missing []string

	// Total is the number of declared paths for the family
	Total int
}

// ImportedCount returns how many declared paths are present under storage
func (r LinkReport) ImportedCount() int {
	return len(r.Imported)
}
