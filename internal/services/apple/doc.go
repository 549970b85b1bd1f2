// Package apple scrapes trailer download links from the Apple Trailers site.
//
// The client searches the quick-find endpoint for a title, confirms the
// match by title text and release year, then scrapes the movie's playlist
// include for direct .mov asset links. Each scraped asset link expands into
// one candidate per acceptable resolution, highest first, so the downloader
// can fall back to a smaller file when the big one is missing. A missing
// title or year yields an empty list rather than an error.
package apple
