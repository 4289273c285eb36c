// Package stamp assembles the exported stamp record, the JSON artifact
// that pairs a processed stamp image with its layout metadata.
//
// Assemble validates that a name and every required reference line are
// present, reporting all gaps in one *ValidationError, then derives the
// record fields from the layout. Serialize and Parse convert records to
// and from the on-disk JSON form; the field names in that form are fixed
// by downstream consumers.
package stamp
