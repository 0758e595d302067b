package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"hatim-app-go/pkg/logger"

	"gopkg.in/yaml.v3"
)

// loadYAMLFile reads a flat KEY: value document and exports every key that
// is not already set. An empty path is a no-op.
func loadYAMLFile(path string, log logger.Logger) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("config: file not found", "path", path)
			return nil
		}
		return err
	}

	values, err := parseYAML(contents)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	loaded, skipped, err := exportMissing(values)
	if err != nil {
		return err
	}

	log.Info("config: loaded file", "path", path, "count", loaded, "skipped", skipped)
	return nil
}

func parseYAML(contents []byte) (map[string]string, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(contents, &raw); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(raw))
	for key, value := range raw {
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		switch v := value.(type) {
		case nil:
			continue
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("key %s: nested values are not supported", key)
		default:
			values[key] = fmt.Sprint(v)
		}
	}
	return values, nil
}
