// Package camwait optionally delays session start until a camera device
// enumerates, by listening for video4linux add events on the udev netlink
// socket.
package camwait
