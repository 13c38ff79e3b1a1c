// Package dump decodes the per-version type tree dumps produced by the
// engine's type tree exporter.
//
// A dump describes every runtime class of one engine version. Each class
// carries up to two field trees, one for editor builds and one for release
// builds.
package dump

// VersionDump is the decoded content of one dump file.
type VersionDump struct {
	Version string        `json:"Version"`
	Strings []StringEntry `json:"Strings"`
	Classes []ClassInfo   `json:"Classes"`
}

// StringEntry is an entry of the engine's common string buffer. It is carried
// for completeness; class databases build their own string table.
type StringEntry struct {
	Index  uint32 `json:"Index"`
	String string `json:"String"`
}

// ClassInfo describes one runtime class.
type ClassInfo struct {
	Name            string     `json:"Name"`
	Namespace       string     `json:"Namespace"`
	FullName        string     `json:"FullName"`
	Module          string     `json:"Module"`
	TypeID          int32      `json:"TypeID"`
	Base            string     `json:"Base"`
	Derived         []string   `json:"Derived"`
	DescendantCount uint32     `json:"DescendantCount"`
	Size            int32      `json:"Size"`
	TypeIndex       uint32     `json:"TypeIndex"`
	IsAbstract      bool       `json:"IsAbstract"`
	IsSealed        bool       `json:"IsSealed"`
	IsEditorOnly    bool       `json:"IsEditorOnly"`
	IsStripped      bool       `json:"IsStripped"`
	EditorRootNode  *FieldNode `json:"EditorRootNode"`
	ReleaseRootNode *FieldNode `json:"ReleaseRootNode"`
}

// RootNode returns the field tree for f, or nil when the class has none.
func (c *ClassInfo) RootNode(f Flavor) *FieldNode {
	if f == Editor {
		return c.EditorRootNode
	}
	return c.ReleaseRootNode
}

// FieldNode is one node of a class's field tree.
type FieldNode struct {
	TypeName  string       `json:"TypeName"`
	Name      string       `json:"Name"`
	Level     uint8        `json:"Level"`
	ByteSize  int32        `json:"ByteSize"`
	Index     int32        `json:"Index"`
	Version   int16        `json:"Version"`
	TypeFlags uint8        `json:"TypeFlags"`
	MetaFlag  int32        `json:"MetaFlag"`
	SubNodes  []*FieldNode `json:"SubNodes"`
}

// IsArray reports whether the node's type flags mark it as an array.
func (n *FieldNode) IsArray() bool {
	return n.TypeFlags&1 != 0
}
