// Package initialize implements the init command, which scaffolds an empty
// repository metadata directory in a new or empty target directory.
package initialize
