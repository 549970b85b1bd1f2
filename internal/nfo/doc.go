// Package nfo extracts movie identity from Kodi-style sidecar files.
//
// A sidecar is any .nfo or .xml file next to the movie. Parse walks the
// top-level elements of the document and assembles a Record from uniqueid
// elements, the known id tag spellings, release dates, and title variants.
// Field conflicts resolve through fixed priority chains, and every id or year
// must match its pattern before it is trusted.
//
// Parse never returns an error: unreadable or malformed documents yield an
// empty Record so classification can continue with whatever else the folder
// offers.
package nfo
