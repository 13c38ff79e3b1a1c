package cldb

import (
	"fmt"

	"github.com/meigma/classdata/dump"
)

// walk visits the tree rooted at root in depth-first pre-order.
func walk(root *dump.FieldNode, visit func(*dump.FieldNode) error) error {
	if root == nil {
		return nil
	}
	stack := []*dump.FieldNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := visit(n); err != nil {
			return err
		}
		for i := len(n.SubNodes) - 1; i >= 0; i-- {
			if child := n.SubNodes[i]; child != nil {
				stack = append(stack, child)
			}
		}
	}
	return nil
}

// CollectStrings adds the name and type name of every node under root to set.
func CollectStrings(root *dump.FieldNode, set StringSet) {
	_ = walk(root, func(n *dump.FieldNode) error {
		set.Add(n.Name)
		set.Add(n.TypeName)
		return nil
	})
}

// Flatten emits one FieldRecord per node under root in pre-order. Depth is
// copied from each node's Level, not derived from the traversal. Every name
// must already be in tab.
func Flatten(root *dump.FieldNode, tab *StringTable) ([]FieldRecord, error) {
	var fields []FieldRecord
	err := walk(root, func(n *dump.FieldNode) error {
		typeName, err := tab.Ref(n.TypeName)
		if err != nil {
			return fmt.Errorf("field %s: %w", n.Name, err)
		}
		fieldName, err := tab.Ref(n.Name)
		if err != nil {
			return fmt.Errorf("field %s: %w", n.Name, err)
		}
		fields = append(fields, FieldRecord{
			TypeName:  typeName,
			FieldName: fieldName,
			Depth:     n.Level,
			TypeFlags: n.TypeFlags,
			Size:      n.ByteSize,
			Version:   uint16(n.Version), //nolint:gosec // stored as the raw 16 bits
			MetaFlags: uint32(n.MetaFlag), //nolint:gosec // stored as the raw 32 bits
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}
