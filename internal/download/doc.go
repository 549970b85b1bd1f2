// Package download places trailer files next to their movies.
//
// A Downloader owns one staging root for its whole run; every Download call
// works inside a fresh uuid-named subdirectory so concurrent folder scans
// never collide, then moves the finished file into the movie folder. Apple
// candidates are fetched over HTTP with the QuickTime user agent, YouTube
// candidates are delegated to yt-dlp. CleanUp removes the staging root and
// is called once after all folder processing completes.
package download
