// Package filesystem loads documents from disk and watches them for changes.
//
// The Watcher observes the parent directory rather than the file itself so
// that editors which replace a file by renaming a temporary copy over it
// are still noticed.
package filesystem
