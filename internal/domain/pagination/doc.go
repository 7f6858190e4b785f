// Package pagination computes offset/limit windows for item listings from the
// optional page and size query parameters.
//
// A request that specifies no size (or a size of zero) selects the complete,
// unwindowed listing whatever the page. Otherwise the window starts at
// size*page and holds at most size items.
package pagination
