// Package pipeline orchestrates a full archive run: unpack, locate
// timelines, match clip pairs, apply cuts, and repack. It owns run
// bookkeeping but delegates every timeline mutation to the cuts package.
package pipeline
