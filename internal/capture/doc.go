// Package capture produces one frame file per tick through whichever
// capability is available: hardware camera, placeholder generator, or blank
// files. The variant is selected once at session start.
package capture
