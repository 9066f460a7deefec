package vfs

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	typeFile      = "file"
	typeDirectory = "directory"
)

// Document is the snapshot encoding of one node. Files carry base64
// content, directories carry children keyed by name.
type Document struct {
	Name     string               `json:"name"`
	Type     string               `json:"type"`
	Content  *string              `json:"content,omitempty"`
	Children map[string]*Document `json:"children,omitempty"`
}

type fileDocument struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type dirDocument struct {
	Name     string               `json:"name"`
	Type     string               `json:"type"`
	Children map[string]*Document `json:"children"`
}

// MarshalJSON writes only the fields that belong to the document's type,
// so an empty directory still carries "children": {}.
func (d *Document) MarshalJSON() ([]byte, error) {
	switch d.Type {
	case typeFile:
		content := ""
		if d.Content != nil {
			content = *d.Content
		}
		return json.Marshal(fileDocument{Name: d.Name, Type: d.Type, Content: content})
	case typeDirectory:
		children := d.Children
		if children == nil {
			children = map[string]*Document{}
		}
		return json.Marshal(dirDocument{Name: d.Name, Type: d.Type, Children: children})
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrFormat, d.Type)
	}
}

// Encode converts a node and its subtree into a snapshot document.
func Encode(n Node) *Document {
	switch x := n.(type) {
	case *File:
		content := base64.StdEncoding.EncodeToString(x.content)
		return &Document{Name: x.name, Type: typeFile, Content: &content}
	case *Dir:
		children := make(map[string]*Document, len(x.children))
		for name, c := range x.children {
			children[name] = Encode(c)
		}
		return &Document{Name: x.name, Type: typeDirectory, Children: children}
	}
	return nil
}

// Decode converts a snapshot document into a node tree. It is the inverse
// of Encode.
//
// File content must be standard base64. Content that does not decode, such
// as plain text, fails the whole document with ErrFormat rather than being
// kept verbatim.
func Decode(doc *Document) (Node, error) {
	return decode("/", doc)
}

func decode(path string, doc *Document) (Node, error) {
	if doc == nil {
		return nil, newError(OpDecode, path, fmt.Errorf("%w: empty node", ErrFormat))
	}

	switch doc.Type {
	case typeFile:
		if doc.Content == nil {
			return nil, newError(OpDecode, path, fmt.Errorf("%w: file without content", ErrFormat))
		}
		raw, err := base64.StdEncoding.DecodeString(*doc.Content)
		if err != nil {
			return nil, newError(OpDecode, path, fmt.Errorf("%w: content: %v", ErrFormat, err))
		}
		return &File{name: doc.Name, content: raw}, nil

	case typeDirectory:
		if doc.Children == nil {
			return nil, newError(OpDecode, path, fmt.Errorf("%w: directory without children", ErrFormat))
		}
		dir := &Dir{name: doc.Name, children: make(map[string]Node, len(doc.Children))}
		for key, childDoc := range doc.Children {
			childPath := joinPath(path, key)
			child, err := decode(childPath, childDoc)
			if err != nil {
				return nil, err
			}
			if child.Name() != key {
				return nil, newError(OpDecode, childPath,
					fmt.Errorf("%w: name %q does not match key %q", ErrFormat, child.Name(), key))
			}
			dir.add(child)
		}
		return dir, nil

	default:
		return nil, newError(OpDecode, path, fmt.Errorf("%w: unknown type %q", ErrFormat, doc.Type))
	}
}

// ParseSnapshot decodes JSON snapshot bytes into a tree rooted at a
// directory.
func ParseSnapshot(data []byte) (*Dir, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, newError(OpDecode, "", fmt.Errorf("%w: %v", ErrFormat, err))
	}
	n, err := Decode(&doc)
	if err != nil {
		return nil, err
	}
	root, ok := n.(*Dir)
	if !ok {
		return nil, newError(OpDecode, "/", fmt.Errorf("%w: root is not a directory", ErrFormat))
	}
	return root, nil
}

// MarshalSnapshot encodes a tree as indented snapshot JSON.
func MarshalSnapshot(n Node) ([]byte, error) {
	return json.MarshalIndent(Encode(n), "", "  ")
}

func joinPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}
