package ui

import "nbl/internal/domain"

// Viewer displays a stored run interactively
type Viewer interface {
	View(run *domain.StoredRun) error
}
