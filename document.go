package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Document is a config file after decoding and structural validation, with
// mapping sections kept in declaration order.
type Document struct {
	InputKeys  []string
	Remap      []RemapEntry
	OutputKeys []string
	Chords     []ChordEntry
}

// RemapEntry rewrites one physical key to another output key.
type RemapEntry struct {
	From string
	To   string
}

// ChordEntry binds a chord spec (component letters) to output key names.
type ChordEntry struct {
	Spec    string
	Outputs []string
}

// Section names as they appear in config files and diagnostics.
const (
	sectionInputKeys    = "input.keys"
	sectionInputRemap   = "input.remap"
	sectionOutputKeys   = "output.keys"
	sectionOutputChords = "output.chords"
)

// isYAML reports whether path should be decoded as YAML rather than TOML.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// parseDocument decodes and validates a config document.
//
// Parameters:
//   - data: Raw file contents.
//   - yamlFormat: Decode as YAML instead of TOML.
//
// Returns:
//   - *Document: The decoded document.
//   - error: Non-nil if the document cannot be parsed or has the wrong shape.
func parseDocument(data []byte, yamlFormat bool) (*Document, error) {
	var (
		raw   map[string]any
		order map[string][]string
		err   error
	)
	if yamlFormat {
		raw, order, err = decodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	} else {
		raw, order, err = decodeTOML(data)
		if err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}
	return buildDocument(raw, order), nil
}

// decodeTOML decodes data into its generic form and records the declaration
// order of the keys of every mapping section.
func decodeTOML(data []byte) (map[string]any, map[string][]string, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, nil, err
	}
	order := make(map[string][]string)
	for _, k := range md.Keys() {
		if len(k) != 3 {
			continue
		}
		section := k[0] + "." + k[1]
		if section == sectionInputRemap || section == sectionOutputChords {
			order[section] = append(order[section], k[2])
		}
	}
	return raw, order, nil
}

// decodeYAML is the YAML counterpart of decodeTOML.
func decodeYAML(data []byte) (map[string]any, map[string][]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, err
	}
	order := make(map[string][]string)
	if len(root.Content) == 0 {
		return nil, order, nil
	}
	var raw map[string]any
	if err := root.Decode(&raw); err != nil {
		return nil, nil, err
	}
	doc := root.Content[0]
	for _, section := range []string{sectionInputRemap, sectionOutputChords} {
		parts := strings.SplitN(section, ".", 2)
		m := yamlChild(yamlChild(doc, parts[0]), parts[1])
		if m == nil || m.Kind != yaml.MappingNode {
			continue
		}
		for i := 0; i+1 < len(m.Content); i += 2 {
			order[section] = append(order[section], m.Content[i].Value)
		}
	}
	return raw, order, nil
}

// yamlChild returns the value node stored under key in mapping node n.
func yamlChild(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// buildDocument converts a validated generic document into a Document.
func buildDocument(raw map[string]any, order map[string][]string) *Document {
	doc := &Document{}
	input, _ := raw["input"].(map[string]any)
	output, _ := raw["output"].(map[string]any)

	doc.InputKeys = stringList(input["keys"])
	doc.OutputKeys = stringList(output["keys"])

	remap, _ := input["remap"].(map[string]any)
	for _, from := range orderedKeys(remap, order[sectionInputRemap]) {
		to, _ := remap[from].(string)
		doc.Remap = append(doc.Remap, RemapEntry{From: from, To: to})
	}

	chords, _ := output["chords"].(map[string]any)
	for _, spec := range orderedKeys(chords, order[sectionOutputChords]) {
		var outputs []string
		switch v := chords[spec].(type) {
		case string:
			outputs = []string{v}
		default:
			outputs = stringList(v)
		}
		doc.Chords = append(doc.Chords, ChordEntry{Spec: spec, Outputs: outputs})
	}
	return doc
}

// orderedKeys returns the keys of m in declaration order. Keys the decoder did
// not report an order for are appended afterwards.
func orderedKeys(m map[string]any, declared []string) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range declared {
		if _, ok := m[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, _ := item.(string)
		out = append(out, s)
	}
	return out
}
