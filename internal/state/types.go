// Package state writes snapshots of the virtual filesystem to disk.
package state

import "time"

// Backup is a previous snapshot kept next to the export target.
type Backup struct {
	Path    string
	ModTime time.Time
}
