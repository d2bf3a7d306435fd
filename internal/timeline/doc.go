// Package timeline is the construction-planning scheduler engine behind the
// Gantt view: date/pixel coordinate mapping, row layout with collapsible
// sub-intervention rows, the drag interaction reducer, inline creation
// drafts, filtering and summary counters, and the per-item commit ledger.
//
// Everything here is a pure function of (items, ViewState, Geometry) or an
// explicit value owned by a single UI event loop; nothing in this package
// performs I/O. Units are abstract: a terminal renderer treats one unit as
// one cell column, the SVG renderer as one pixel.
package timeline
