// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// Task identifiers are opaque strings; callers must not rely on their exact
// shape.
package idgen
