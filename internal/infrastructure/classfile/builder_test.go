package classfile

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// classBuilder assembles minimal class files for tests.
type classBuilder struct {
	pool bytes.Buffer
	next uint16
}

func newClassBuilder() *classBuilder {
	return &classBuilder{next: 1}
}

func (b *classBuilder) utf8(s string) uint16 {
	idx := b.next
	b.pool.WriteByte(TagUtf8)
	_ = binary.Write(&b.pool, binary.BigEndian, uint16(len(s)))
	b.pool.WriteString(s)
	b.next++
	return idx
}

func (b *classBuilder) class(name string) uint16 {
	n := b.utf8(name)
	idx := b.next
	b.pool.WriteByte(TagClass)
	_ = binary.Write(&b.pool, binary.BigEndian, n)
	b.next++
	return idx
}

func (b *classBuilder) long(v int64) uint16 {
	idx := b.next
	b.pool.WriteByte(TagLong)
	_ = binary.Write(&b.pool, binary.BigEndian, v)
	b.next += 2
	return idx
}

func (b *classBuilder) methodHandle() {
	b.pool.Write([]byte{TagMethodHandle, 6, 0, 1})
	b.next++
}

type classSpec struct {
	name   string
	super  string
	ifaces []string
	major  uint16
	flags  uint16
}

func buildClass(spec classSpec) []byte {
	b := newClassBuilder()
	b.long(42)
	this := b.class(spec.name)
	var super uint16
	if spec.super != "" {
		super = b.class(spec.super)
	}
	b.methodHandle()
	ifaces := make([]uint16, 0, len(spec.ifaces))
	for _, i := range spec.ifaces {
		ifaces = append(ifaces, b.class(i))
	}

	major := spec.major
	if major == 0 {
		major = 61
	}
	flags := spec.flags
	if flags == 0 {
		flags = AccPublic | AccSuper
	}

	var out bytes.Buffer
	w := func(v any) { _ = binary.Write(&out, binary.BigEndian, v) }
	w(uint32(Magic))
	w(uint16(0))
	w(major)
	w(b.next)
	out.Write(b.pool.Bytes())
	w(flags)
	w(this)
	w(super)
	w(uint16(len(ifaces)))
	for _, i := range ifaces {
		w(i)
	}
	// fields, methods, attributes
	w(uint16(0))
	w(uint16(0))
	w(uint16(0))
	return out.Bytes()
}

func writeClassDir(t *testing.T, root string, specs ...classSpec) {
	t.Helper()
	for _, s := range specs {
		path := filepath.Join(root, filepath.FromSlash(s.name)+".class")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, buildClass(s), 0o600))
	}
}

func writeJar(t *testing.T, path string, specs ...classSpec) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, s := range specs {
		w, err := zw.Create(s.name + ".class")
		require.NoError(t, err)
		_, err = w.Write(buildClass(s))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}
