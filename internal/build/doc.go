// Package build provides the sitemap build pipeline.
//
// All execution paths (the build command, the watch loop, tests) route
// through BuildService. A run loads the sources, computes the sitemap, writes
// the artifact and then records the build in the manifest, the history store,
// the metrics recorder and the notification channel. Only the stages up to the
// artifact write can fail a build; the later ones log warnings.
package build
