// Package watch drives repeated sitemap builds: it watches the source
// documents with fsnotify, debounces bursts of events, optionally schedules
// periodic rebuilds with gocron and runs one rebuild at a time.
package watch
