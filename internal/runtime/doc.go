// Package runtime launches package entry points in a Node.js child process.
//
// The child runs a fixed launcher script. The entry path and a serialized
// Payload are passed as separate arguments, so no caller-supplied value ever
// becomes program text. The child inherits the parent's standard streams.
package runtime
