package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
)

// Bundle is the authoring file layout: one rescue item, its scenes, and the
// library items they reference, all in a single document.
type Bundle struct {
	Rescue  rescue.RescueItem    `json:"rescue"`
	Stories []rescue.Story       `json:"stories"`
	Library []rescue.LibraryItem `json:"library"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scenario.json|scenario.yaml> [...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		if err := validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

func validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	bundle, err := decodeBundle(filename, data)
	if err != nil {
		return err
	}

	rescue.SortStories(bundle.Stories)
	lib := rescue.NewLibrary(bundle.Library)

	if err := rescue.ValidateScenario(&bundle.Rescue, bundle.Stories, lib); err != nil {
		var verr *rescue.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("errors in %s:\n%s", filename, bulletList(verr.Errors))
		}
		return err
	}
	return nil
}

// decodeBundle parses the authoring document. YAML input round-trips through
// JSON so the wire-format field names and value parsing apply to both formats.
func decodeBundle(filename string, data []byte) (*Bundle, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("file %s is not valid YAML: %w", filename, err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("file %s could not be converted from YAML: %w", filename, err)
		}
		data = converted
	default:
		return nil, fmt.Errorf("unsupported file extension %q (want .json or .yaml)", ext)
	}

	var bundle Bundle
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("file %s failed strict unmarshaling: %w", filename, err)
	}
	return &bundle, nil
}

func bulletList(lines []string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = "  - " + line
	}
	return strings.Join(out, "\n")
}
