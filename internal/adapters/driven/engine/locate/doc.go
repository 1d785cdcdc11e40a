// Package locate provides a search engine backed by the system locate
// database (plocate, mlocate or locate) and the relevance scorer used for
// every hit in a session.
//
// The engine never walks the filesystem: it runs the locate command once
// per query, keeps paths under the query location that contain every
// term, and streams them to the session sink in rate-limited batches.
package locate
