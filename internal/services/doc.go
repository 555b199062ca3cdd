// Package services defines the shared error taxonomy for external capability
// invocations and the Wrap helper that tags failures with stage context.
package services
