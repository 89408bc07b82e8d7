// Package drp handles project archives: validation, extraction into a
// working tree, and repacking.
//
// A .drp file is a zip archive holding a project descriptor and a
// SeqContainer directory of timeline documents. Repacking copies untouched
// members raw from the source archive, so everything the run did not
// rewrite stays byte-identical.
package drp
