package blacklist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"nbl/internal/domain"
)

// ParseRules reads one rule per line. Blank lines and '#' comments are skipped.
func ParseRules(r io.Reader) (domain.RuleSet, error) {
	var rules domain.RuleSet
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if rule, ok := domain.ParseRule(strings.TrimSuffix(scanner.Text(), "\r")); ok {
			rules = append(rules, rule)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading blacklist rules: %w", err)
	}
	return rules, nil
}

// LoadFile reads a blacklist file.
func LoadFile(path string) (domain.RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening blacklist file %s: %w", path, err)
	}
	defer f.Close()

	rules, err := ParseRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// FromArgs turns repeated --blacklist values into rules.
func FromArgs(args []string) domain.RuleSet {
	var rules domain.RuleSet
	for _, arg := range args {
		if rule, ok := domain.ParseRule(arg); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

// WriteTempFile writes rules to a new file in dir (os.TempDir when empty)
// and returns its path. The caller removes it with RemoveQuietly.
func WriteTempFile(dir string, rules domain.RuleSet) (string, error) {
	f, err := os.CreateTemp(dir, "nbl-blacklist-*.txt")
	if err != nil {
		return "", fmt.Errorf("create blacklist file: %w", err)
	}
	defer f.Close()

	content := strings.Join(rules.Strings(), "\n")
	if _, err := f.WriteString(content + "\n"); err != nil {
		RemoveQuietly(f.Name())
		return "", fmt.Errorf("write blacklist file: %w", err)
	}
	return f.Name(), nil
}

// RemoveQuietly deletes path, ignoring a missing file and any other error.
func RemoveQuietly(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}
