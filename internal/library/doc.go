// Package library classifies the contents of a single movie folder.
//
// A Scanner walks the folder's immediate entries and sorts them into at most
// one movie file, at most one trailer file, and the best sidecar metadata
// record. Video files are told apart by probed duration, sidecars by a
// completeness-then-size contest, and Blu-ray/DVD disc structures are
// recognized by their directory markers so the index file can stand in for
// the movie without probing. The resulting Result carries everything the
// acquisition flow needs, including the expected trailer file name derived
// from the movie.
package library
