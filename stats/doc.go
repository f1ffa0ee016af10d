// Package stats provides a lightweight tracker that keeps aggregated
// scheduler counters (tasks spawned, completed, switches, ...) for a single
// runtime instance. Components update the counters through the Delta helper;
// no global registry is involved.
package stats
