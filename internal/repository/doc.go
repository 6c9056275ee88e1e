// Package repository creates, validates and locates repository metadata layouts.
//
// Service.Create scaffolds a new metadata directory, Service.Open validates an
// existing one, and Service.Find walks upward from a path to the nearest
// enclosing repository. Repository exposes the worktree root, the metadata
// directory and a read-only view of the INI configuration to the subsystems
// built on top of it.
package repository
