// Package locate implements commands that discover the repository enclosing a
// path: root prints its worktree and config prints one configuration value.
package locate
