// Package reqcache deduplicates expensive service requests. Completed
// results live in a TTL cache keyed by a content hash; concurrent misses
// for the same key collapse into a single in-flight call.
package reqcache
