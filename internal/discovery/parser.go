package discovery

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"nbl/internal/domain"
)

var (
	classPattern    = regexp.MustCompile(`^class\s+(\w+)\s*(?:\(([^)]*)\))?\s*:`)
	functionPattern = regexp.MustCompile(`^def\s+(test\w*)\s*\(`)
	methodPattern   = regexp.MustCompile(`^(\s+)def\s+(test\w*)\s*\(`)

	// nose's default testMatch
	testMatch = regexp.MustCompile(`(?:^|[_./-])[Tt]est`)
)

// Parser statically extracts test cases from Python test modules
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// FindTestCases returns the test methods of test classes and the module-level
// test functions defined in filePath, in source order.
func (p *Parser) FindTestCases(filePath string) ([]domain.QualifiedName, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	defer f.Close()

	module := ModuleName(filePath)
	seen := make(map[string]bool) // Redefinitions replace earlier ones in Python
	var names []domain.QualifiedName
	add := func(name domain.QualifiedName) {
		if !seen[name.String()] {
			seen[name.String()] = true
			names = append(names, name)
		}
	}

	var class, bodyIndent string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if line[0] != ' ' && line[0] != '\t' {
			class, bodyIndent = "", ""
			if m := classPattern.FindStringSubmatch(line); m != nil && isTestClass(m[1], m[2]) {
				class = m[1]
				continue
			}
			if m := functionPattern.FindStringSubmatch(line); m != nil {
				add(domain.NewQualifiedName(module, "", m[1]))
			}
			continue
		}

		if class == "" {
			continue
		}
		if bodyIndent == "" {
			bodyIndent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		}
		if m := methodPattern.FindStringSubmatch(line); m != nil && m[1] == bodyIndent {
			add(domain.NewQualifiedName(module, class, m[2]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	return names, nil
}

func isTestClass(name, bases string) bool {
	return strings.Contains(bases, "TestCase") || testMatch.MatchString(name)
}
