// Package render assembles a session's captured frames into a single video
// artifact by invoking the external encoder, degrading gracefully when the
// encoder capability is absent.
package render
