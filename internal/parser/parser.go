package parser

import "nbl/internal/domain"

// Parser turns a captured test report into a structured result
type Parser interface {
	Parse(raw string) (*domain.RunResult, error)
}
