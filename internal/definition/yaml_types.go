package definition

import (
	"fmt"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"remixin/internal/common"
	"remixin/object"
)

// funcTag marks a scalar naming a registered function.
const funcTag = "!func"

// FuncRef is a reference to a registered function by name, written
// `!func name` in YAML.
type FuncRef string

// StringOrArray accepts either a single string or a list of strings.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array", node.Line)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// Props is a YAML mapping decoded into an *object.Object with its key order.
type Props struct {
	*object.Object
}

// UnmarshalYAML implements custom YAML unmarshaling for Props.
func (p *Props) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	v, err := DecodeValue(node)
	if err != nil {
		return err
	}

	p.Object = v.(*object.Object)

	return nil
}

// MarshalYAML implements custom YAML marshaling for Props.
func (p Props) MarshalYAML() (any, error) {
	if p.Object == nil {
		return nil, nil
	}

	return EncodeValue(p.Object)
}

// IsZero reports whether there is nothing to marshal.
func (p Props) IsZero() bool {
	return p.Object == nil || p.Len() == 0
}

// Binding attaches the function named Func to the method named Method.
type Binding struct {
	Method string
	Func   string
}

// Bindings is a YAML mapping of method name to function name, in file order.
type Bindings []Binding

// UnmarshalYAML implements custom YAML unmarshaling for Bindings.
func (b *Bindings) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of method to function name", node.Line)
	}

	out := make(Bindings, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var method, fn string

		if err := node.Content[i].Decode(&method); err != nil {
			return err
		}

		if err := node.Content[i+1].Decode(&fn); err != nil {
			return fmt.Errorf("line %d: %s: expected a function name: %w", node.Content[i+1].Line, method, err)
		}

		out = append(out, Binding{Method: method, Func: fn})
	}

	*b = out

	return nil
}

// MarshalYAML implements custom YAML marshaling for Bindings.
func (b Bindings) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, binding := range b {
		node.Content = append(node.Content, stringNode(binding.Method), stringNode(binding.Func))
	}

	return node, nil
}

// DecodeValue converts a YAML node into engine values: mappings become
// *object.Object keeping key order, sequences []any, scalars their natural
// Go type and !func scalars a FuncRef.
func DecodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return DecodeValue(node.Content[0])

	case yaml.AliasNode:
		return DecodeValue(node.Alias)

	case yaml.MappingNode:
		out := object.New(nil)

		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}

			v, err := DecodeValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}

			out.Set(key.Value, v)
		}

		return out, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))

		for _, item := range node.Content {
			v, err := DecodeValue(item)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return out, nil

	case yaml.ScalarNode:
		if node.Tag == funcTag {
			return FuncRef(node.Value), nil
		}

		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}

		return v, nil

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
	}
}

// EncodeValue converts an engine value into a YAML node. Only own properties
// of objects are written. Functions are written as `!func function`.
func EncodeValue(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case FuncRef:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: funcTag, Value: string(x)}, nil
	case *object.Object:
		if x == nil {
			return nullNode(), nil
		}

		node := &yaml.Node{Kind: yaml.MappingNode}

		for _, key := range x.Keys() {
			value, _ := x.Own(key)

			vn, err := EncodeValue(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}

			node.Content = append(node.Content, stringNode(key), vn)
		}

		return node, nil
	case *regexp.Regexp:
		if x == nil {
			return nullNode(), nil
		}

		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!regexp", Value: x.String()}, nil
	}

	switch object.KindOf(v) {
	case object.KindNull:
		return nullNode(), nil
	case object.KindFunction:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: funcTag, Value: "function"}, nil
	case object.KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode}

		for _, item := range object.ToSlice(v) {
			in, err := EncodeValue(item)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, in)
		}

		return node, nil
	}

	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}

	return node, nil
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
