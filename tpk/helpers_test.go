package tpk

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/classdata/cldb"
	"github.com/meigma/classdata/dump"
)

func testDump(ver string) *dump.VersionDump {
	root := &dump.FieldNode{
		TypeName: "GameObject",
		Name:     "Base",
		ByteSize: -1,
		SubNodes: []*dump.FieldNode{
			{TypeName: "string", Name: "m_Name", Level: 1, ByteSize: -1},
		},
	}
	return &dump.VersionDump{
		Version: ver,
		Classes: []dump.ClassInfo{
			{Name: "GameObject", TypeID: 1, Base: "Object", EditorRootNode: root, ReleaseRootNode: root},
			{Name: "Object", TypeID: 0},
		},
	}
}

// writeDatabases builds a database per version and flavor into dir.
func writeDatabases(t *testing.T, dir string, versions ...string) {
	t.Helper()
	b := cldb.NewBuilder()
	for _, v := range versions {
		for _, flavor := range dump.Flavors {
			db, err := b.Build(testDump(v), flavor)
			require.NoError(t, err)
			require.NoError(t, db.WriteFile(filepath.Join(dir, v+flavor.Suffix()+Extension)))
		}
	}
}

func fileNames(p *Package) []string {
	out := make([]string, len(p.Files))
	for i := range p.Files {
		out[i] = p.Files[i].Name
	}
	return out
}
