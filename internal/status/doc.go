// Package status defines the machine-readable progress record a session
// publishes at every state change and the atomic file publisher behind it.
package status
