package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// WriteToFile writes the strings to savePath separated by new lines, creating
// parent directories as needed. Without content the file is truncated.
func WriteToFile(savePath string, content ...string) error {
	if err := os.MkdirAll(filepath.Dir(savePath), os.ModePerm); err != nil {
		return err
	}
	data := ""
	if len(content) > 0 {
		data = strings.Join(content, "\n") + "\n"
	}
	return os.WriteFile(savePath, []byte(data), 0644)
}

func AppendToFile(savePath string, content ...string) error {
	if err := os.MkdirAll(filepath.Dir(savePath), os.ModePerm); err != nil {
		return err
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes v indented to savePath.
func WriteJSON(savePath string, v interface{}) error {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return WriteToFile(savePath, string(bs))
}

// AppendJSONLines appends every item as one JSON line.
func AppendJSONLines[T any](savePath string, items []T) error {
	lines := make([]string, len(items))
	for i, item := range items {
		bs, err := json.Marshal(item)
		if err != nil {
			return err
		}
		lines[i] = string(bs)
	}
	return AppendToFile(savePath, lines...)
}
