package util

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SaveJson writes data as indented json, creating the parent directories
func SaveJson(path string, data interface{}) error {
	bs, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return SaveFile(path, bs)
}

// SaveFile writes the bytes to path, creating the parent directories
func SaveFile(path string, data []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
