// Package filedate infers a calendar date from an image filename.
//
// Dates are recognized at three granularities (full date, year-month, bare
// year) evaluated in priority order; coarser tiers never rescue a match that
// a finer tier claimed but failed to validate.
package filedate
