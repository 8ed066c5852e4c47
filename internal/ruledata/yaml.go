package ruledata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML document into a Record.
// Scalars become attributes, mappings become a single child and sequences of
// mappings become repeated children under the same key. A sequence of scalars
// is stored as a comma separated attribute.
func Parse(data []byte) (*Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	r := New()
	if doc.Kind == 0 {
		return r, nil
	}
	if err := r.UnmarshalYAML(&doc); err != nil {
		return nil, err
	}
	return r, nil
}

// Marshal encodes a Record as a YAML document
func Marshal(r *Record) ([]byte, error) {
	return yaml.Marshal(r)
}

// Load reads and parses a YAML file
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule data %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse rule data %s: %w", path, err)
	}
	return r, nil
}

// Save writes the record to path as YAML
func Save(path string, r *Record) error {
	data, err := Marshal(r)
	if err != nil {
		return fmt.Errorf("encode rule data: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write rule data %s: %w", path, err)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (r *Record) MarshalYAML() (interface{}, error) {
	return r.node(), nil
}

func (r *Record) node() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range r.Keys() {
		n.Content = append(n.Content, scalarNode(k), scalarNode(r.attrs[k]))
	}
	for _, k := range r.ChildKeys() {
		kids := r.Children(k)
		var v *yaml.Node
		if len(kids) == 1 {
			v = kids[0].node()
		} else {
			v = &yaml.Node{Kind: yaml.SequenceNode}
			for _, c := range kids {
				v.Content = append(v.Content, c.node())
			}
		}
		n.Content = append(n.Content, scalarNode(k), v)
	}
	return n
}

func scalarNode(v string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	if strings.Contains(v, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}

// UnmarshalYAML implements yaml.Unmarshaler
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode {
		if len(value.Content) == 0 {
			return nil
		}
		value = value.Content[0]
	}
	if value.Kind == yaml.AliasNode {
		value = value.Alias
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: expected a mapping at line %d", ErrDecode, value.Line)
	}

	r.attrs = make(map[string]string)
	r.children = nil
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		if err := r.decodeEntry(key, value.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Record) decodeEntry(key string, v *yaml.Node) error {
	if v.Kind == yaml.AliasNode {
		v = v.Alias
	}
	switch v.Kind {
	case yaml.ScalarNode:
		r.attrs[key] = v.Value
	case yaml.MappingNode:
		c := New()
		if err := c.UnmarshalYAML(v); err != nil {
			return err
		}
		r.AddChild(key, c)
	case yaml.SequenceNode:
		var scalars []string
		for _, item := range v.Content {
			if item.Kind == yaml.AliasNode {
				item = item.Alias
			}
			switch item.Kind {
			case yaml.ScalarNode:
				scalars = append(scalars, item.Value)
			case yaml.MappingNode:
				c := New()
				if err := c.UnmarshalYAML(item); err != nil {
					return err
				}
				r.AddChild(key, c)
			default:
				return fmt.Errorf("%w: unsupported item in %q at line %d", ErrDecode, key, item.Line)
			}
		}
		if len(scalars) > 0 {
			r.attrs[key] = strings.Join(scalars, ",")
		}
	default:
		return fmt.Errorf("%w: unsupported value for %q at line %d", ErrDecode, key, v.Line)
	}
	return nil
}
