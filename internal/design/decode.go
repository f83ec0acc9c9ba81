package design

import (
	"encoding/json"
	"fmt"
	"os"
)

// Decode parses a raw design-document payload.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding design document: %w", err)
	}
	if doc.Root == nil {
		// Some exports place the tree at the top level instead of under
		// "document". Accept that shape too.
		var root Node
		if err := json.Unmarshal(data, &root); err != nil || root.ID == "" {
			return nil, fmt.Errorf("design document has no root node")
		}
		doc.Root = &root
	}
	return &doc, nil
}

// Load reads and decodes a design document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading design document: %w", err)
	}
	return Decode(data)
}

// FindNode locates a node by id anywhere under root. Returns nil if absent.
func FindNode(root *Node, id string) *Node {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if found := FindNode(child, id); found != nil {
			return found
		}
	}
	return nil
}
