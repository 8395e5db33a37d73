// Package client holds the cache consumers of a federated chat client:
// remote room state and account data, fronted by per-owner tinycache
// stores.
//
// Both caches follow the same pattern: reads go fetch-or-compute through
// the store, remote writes write through on success, and a server-side
// "not found" collapses to an empty object before it reaches the cache so
// absence is cached like any other value.
//
// The network itself stays behind the API interface; this package knows
// resource paths and caching policy, nothing about transport.
package client
