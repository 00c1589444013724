package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Dir is checked before the embedded levels.
var Dir = "levels"

const DefaultLevel = "arena"

var ErrInvalidLevel = errors.New("levels: invalid level")

// Load reads a level by base name; the .json suffix is optional.
func Load(name string) (*Level, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultLevel
	}
	file := filepath.Base(filepath.ToSlash(name))
	if !strings.HasSuffix(file, ".json") {
		file += ".json"
	}

	data, err := os.ReadFile(filepath.Join(Dir, file))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, file)
		if err != nil {
			return nil, fmt.Errorf("levels: read %s: %w", file, err)
		}
	}
	return Parse(data, file)
}

func Parse(data []byte, name string) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(name, ".json")
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	return &lvl, nil
}
