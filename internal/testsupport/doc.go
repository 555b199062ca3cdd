// Package testsupport provides shared helpers for package tests: temp-backed
// configs and sessions, and PATH stubbing for external tool probing.
package testsupport
