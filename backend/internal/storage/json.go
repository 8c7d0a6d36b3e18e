package storage

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
)

func readJSON(path string) (types.TableData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.TableData{}, fmt.Errorf("failed to read JSON: %w", err)
	}
	var data types.TableData
	if err := json.Unmarshal(raw, &data); err != nil {
		return types.TableData{}, malformed(path, err)
	}
	if len(data.Header) > 0 {
		data.HasHeader = true
		return data, nil
	}
	// no header field: the first row is the header
	return splitHeader(path, data.Rows)
}

func writeJSON(path string, data types.TableData) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON: %w", err)
	}
	defer out.Close()

	if data.Rows == nil {
		data.Rows = [][]string{}
	}
	if !data.HasHeader {
		data.Header = nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return out.Close()
}
