// Package timeline reads and writes the vendor XML documents describing one
// edit sequence inside a project archive.
//
// A Document wraps a mutable element tree and exposes the first video and
// first audio track as ordered Clip handles. Clip property access is
// deliberately lenient: missing tracks degrade to empty clip lists and
// unparseable frame values fall back to a caller-supplied default, so one
// malformed timeline never takes down an archive run.
package timeline
