package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconDirOpen    = "▾" // Expanded directory
	IconDirClosed  = "▸" // Collapsed directory
	IconFile       = "·" // File leaf
	IconCompleted  = "✓" // Agent work finished
	IconBlocked    = "✗" // Agent blocked or waiting
	IconInProgress = "…" // Agent working
	IconNotStarted = " " // No status yet (no icon to reduce noise)
)
