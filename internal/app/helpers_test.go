package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// writeSession creates two devices: "left" logs Inertial and Quaternion at
// 1000..5000 us, "right" logs Inertial at 2000..6000 us.
func writeSession(t *testing.T) string {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "left", "Command.json"),
		`[{"ping": {"interface": "USB", "name": "left", "sn": "0001"}}, {"time": "2024-03-01 10:00:00"}]`)
	writeFile(t, filepath.Join(root, "left", "Inertial.csv"), "Timestamp (us),Gx,Gy,Gz,Ax,Ay,Az\n"+
		"1000,0,0,0,0,0,1\n2000,1,0,0,0,0,1\n3000,2,0,0,0,0,1\n4000,3,0,0,0,0,1\n5000,4,0,0,0,0,1\n")
	writeFile(t, filepath.Join(root, "left", "Quaternion.csv"), "Timestamp (us),W,X,Y,Z\n"+
		"1000,1,0,0,0\n5000,0.7071067811865476,0,0,0.7071067811865476\n")

	writeFile(t, filepath.Join(root, "right", "Command.json"),
		`[{"ping": {"interface": "Bluetooth", "name": "right", "sn": "0002"}}]`)
	writeFile(t, filepath.Join(root, "right", "Inertial.csv"), "Timestamp (us),Gx,Gy,Gz,Ax,Ay,Az\n"+
		"2000,0,0,0,0,0,1\n6000,0,0,4,0,0,1\n")

	return root
}
