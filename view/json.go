package view

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/smith/derive"
)

// JSONTree renders a view as an indented JSON document, one object per node.
// Like DotTree it only replaces Output.
type JSONTree struct {
	origin Text
}

func NewJSONTree(origin Text) *JSONTree {
	return &JSONTree{origin: origin}
}

func (j *JSONTree) Writer() derive.Node { return j.origin.Writer() }
func (j *JSONTree) Children() []Text    { return j.origin.Children() }

func (j *JSONTree) Output() (string, error) {
	text, err := j.MarshalText()
	if err != nil {
		return "", err
	}
	return string(text), nil
}

func (j *JSONTree) MarshalText() ([]byte, error) {
	node, err := nodeToJSON(j.origin)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(node, "", "  ")
}

// Encode writes the JSON document to w.
func (j *JSONTree) Encode(w io.Writer) error {
	text, err := j.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

type jsonNode struct {
	Kind      string      `json:"kind"`
	Label     string      `json:"label"`
	Output    string      `json:"output,omitempty"`
	Separator string      `json:"separator,omitempty"`
	Children  []*jsonNode `json:"children,omitempty"`
}

func nodeToJSON(t Text) (*jsonNode, error) {
	out, err := t.Output()
	if err != nil {
		return nil, err
	}
	jn := &jsonNode{
		Kind:   kind(t.Writer()),
		Label:  t.Writer().String(),
		Output: out,
	}
	if rule, ok := t.Writer().(*derive.Rule); ok {
		jn.Separator = rule.Separator()
	}

	children := t.Children()
	if len(children) > 0 {
		jn.Children = make([]*jsonNode, len(children))
		for i, child := range children {
			if jn.Children[i], err = nodeToJSON(child); err != nil {
				return nil, err
			}
		}
	}

	return jn, nil
}

func kind(n derive.Node) string {
	switch n.(type) {
	case *derive.Literal:
		return "literal"
	case *derive.Empty:
		return "empty"
	case *derive.Sequence:
		return "sequence"
	case *derive.Quantifier:
		return "quantifier"
	case *derive.Rule:
		return "rule"
	case *derive.Root:
		return "root"
	}
	return "unknown"
}
