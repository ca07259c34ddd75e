// Package querysql turns search requests into parameterized SQL over the logs
// table and renders matched records as display lines.
//
// User supplied values (name prefixes, excluded kinds, coordinates, limits)
// are always bound as parameters and never interpolated into statement text.
// Every statement orders by time_stamp DESC with id DESC as the tiebreaker,
// so rows captured in the same millisecond still come back in a stable order.
package querysql
