// Package controller sequences one bounded timelapse session.
//
// A session runs initialize, capture loop, render, finalize in strict
// order. Cancellation of the Run context is the only asynchronous input
// and is observed between loop iterations, never inside an in-flight
// capture or encoder call; once observed, the controller exits the loop
// and drives the render path over whatever frames were captured. Every
// state transition is published through the status package before the
// next step runs, so external observers always see a consistent record.
package controller
