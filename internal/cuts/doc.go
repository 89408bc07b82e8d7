// Package cuts implements the boundary-detection and cut-transform engine.
//
// The pipeline inside one timeline is: match video and audio clips into
// pairs, detect the boundaries between adjacent aligned pairs, then apply a
// J-cut or L-cut at each boundary. Matching and detection are read-only;
// only the transforms mutate clip properties, and only after their own
// validation passes. Re-running a cut on its own output shifts the clip
// again: the document carries no marker of an already-applied edit.
package cuts
