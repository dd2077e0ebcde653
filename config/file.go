package config

import (
	"fmt"
	"os"
)

// ToBytes renders a tree to its UTF-8 byte encoding: exactly the textual
// format, no header or metadata.
func ToBytes(t Tree, opts RenderOptions) ([]byte, error) {
	s, err := Render(t, opts)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// FromBytes parses the UTF-8 byte encoding produced by ToBytes.
func FromBytes(b []byte, opts Options) (Tree, error) {
	return Parse(string(b), opts)
}

// LoadFile reads and parses a configuration file.
func LoadFile(path string, opts Options) (Tree, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return FromBytes(b, opts)
}

// SaveFile renders a tree and writes it to a file.
func SaveFile(path string, t Tree, opts RenderOptions) error {
	b, err := ToBytes(t, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
