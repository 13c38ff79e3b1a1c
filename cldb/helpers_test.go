package cldb

import "github.com/meigma/classdata/dump"

func node(typeName, name string, level uint8, children ...*dump.FieldNode) *dump.FieldNode {
	return &dump.FieldNode{
		TypeName: typeName,
		Name:     name,
		Level:    level,
		ByteSize: -1,
		Version:  1,
		SubNodes: children,
	}
}

// sampleDump returns a small dump with an editor-only class, a class with a
// base, and classes listed out of name order.
func sampleDump() *dump.VersionDump {
	transform := node("Transform", "Base", 0,
		node("PPtr<GameObject>", "m_GameObject", 1,
			node("int", "m_FileID", 2),
			node("SInt64", "m_PathID", 2),
		),
		node("Quaternionf", "m_LocalRotation", 1),
	)
	gameObject := node("GameObject", "Base", 0,
		node("vector", "m_Component", 1,
			node("Array", "Array", 2,
				node("int", "size", 3),
			),
		),
		node("string", "m_Name", 1),
	)
	gameObject.SubNodes[0].TypeFlags = 1
	gameObject.SubNodes[0].SubNodes[0].TypeFlags = 1
	gameObject.MetaFlag = 0x8000

	return &dump.VersionDump{
		Version: "2019.4.5p2",
		Classes: []dump.ClassInfo{
			{Name: "Transform", TypeID: 4, Base: "Component", EditorRootNode: transform, ReleaseRootNode: transform},
			{Name: "GameObject", TypeID: 1, Base: "EditorExtension", EditorRootNode: gameObject, ReleaseRootNode: gameObject},
			{Name: "Rigidbody", TypeID: 54, Base: "Component", EditorRootNode: node("Rigidbody", "Base", 0, node("float", "m_Mass", 1))},
			{Name: "Component", TypeID: 2, Base: "EditorExtension"},
			{Name: "EditorExtension", TypeID: 18, Base: "Object"},
			{Name: "Object", TypeID: 0, Base: ""},
		},
	}
}
