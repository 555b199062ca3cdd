// Package notify delivers session lifecycle events via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled, so the controller never has to branch on whether a notifier
// is present.
package notify
