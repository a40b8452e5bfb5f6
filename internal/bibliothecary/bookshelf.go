package bibliothecary

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is a single key of a YAML mapping together with its value.
type Entry[T any] struct {
	Key   string
	Value T
}

// OrderedMap is a YAML mapping decoded into a slice so that the key order of the file is kept.
type OrderedMap[T any] []Entry[T]

func (m *OrderedMap[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	entries := make(OrderedMap[T], 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		var value T
		err := node.Content[i+1].Decode(&value)
		if err != nil {
			return fmt.Errorf("key %q: %w", key.Value, err)
		}
		entries = append(entries, Entry[T]{Key: key.Value, Value: value})
	}
	*m = entries
	return nil
}

type EmbedInfo struct {
	MainTitle    string `yaml:"mainTitle"`
	PlatformHref string `yaml:"platformHref"`
	FaviconUrl   string `yaml:"faviconUrl"`
	AccentColor  int    `yaml:"accentColor"`
}

// Subject holds the links of a single book.
type Subject struct {
	PDF  string `yaml:"PDF"`
	HTML string `yaml:"HTML"`
	// SpaceLine puts a blank gap after the subject when rendered as an embed.
	SpaceLine bool `yaml:"spaceLine"`
}

type (
	// SubjectMap maps subject names to their links.
	SubjectMap = OrderedMap[Subject]
	// AreaMap maps area names to the subjects under them.
	AreaMap = OrderedMap[[]SubjectMap]
	// SectionMap maps section names to the areas under them.
	SectionMap = OrderedMap[[]AreaMap]
)

type Bookshelf struct {
	EmbedInfo EmbedInfo    `yaml:"embedInfo"`
	Sections  []SectionMap `yaml:"sections"`
}

// Parse decodes a bookshelf document.
func Parse(data []byte) (Bookshelf, error) {
	var shelf Bookshelf
	err := yaml.Unmarshal(data, &shelf)
	if err != nil {
		return Bookshelf{}, fmt.Errorf("parse bookshelf: %w", err)
	}
	return shelf, nil
}

// Load reads and decodes the bookshelf file at path.
func Load(path string) (Bookshelf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bookshelf{}, fmt.Errorf("read bookshelf: %w", err)
	}
	return Parse(data)
}
