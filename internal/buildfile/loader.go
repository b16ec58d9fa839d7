package buildfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LoaderFor picks a Loader by looking at path: directories and .hcl files
// are HCL, .yaml and .yml files are YAML.
func LoaderFor(path string) (Loader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing build path %s: %w", path, err)
	}
	if info.IsDir() {
		return NewHCLLoader(), nil
	}
	switch filepath.Ext(path) {
	case ".hcl":
		return NewHCLLoader(), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported build file %s (want .hcl, .yaml or .yml)", ErrInvalid, path)
	}
}

// Load reads and validates the build definition at path.
func Load(ctx context.Context, path string) (*Model, error) {
	loader, err := LoaderFor(path)
	if err != nil {
		return nil, err
	}
	model, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}
