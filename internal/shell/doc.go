// Package shell runs shell command strings on behalf of installed packages,
// restricted to an allow-list of program names.
//
// A script is parsed before anything runs and every command it would call
// must start with a literal, allow-listed name. The script is then run by an
// embedded POSIX shell interpreter whose exec hook re-checks each command it
// actually launches.
package shell
