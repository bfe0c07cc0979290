package classfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrNotClassFile is returned when the input does not start with Magic.
var ErrNotClassFile = errors.New("not a class file")

// byteReader reads big-endian values and remembers the first error.
type byteReader struct {
	r   io.Reader
	err error
	buf [8]byte
}

func (b *byteReader) read(n int) []byte {
	if b.err != nil {
		return b.buf[:n]
	}
	if _, err := io.ReadFull(b.r, b.buf[:n]); err != nil {
		b.err = err
	}
	return b.buf[:n]
}

func (b *byteReader) u1() uint8  { return b.read(1)[0] }
func (b *byteReader) u2() uint16 { return binary.BigEndian.Uint16(b.read(2)) }
func (b *byteReader) u4() uint32 { return binary.BigEndian.Uint32(b.read(4)) }

func (b *byteReader) bytes(n int) []byte {
	out := make([]byte, n)
	if b.err != nil {
		return out
	}
	if _, err := io.ReadFull(b.r, out); err != nil {
		b.err = err
	}
	return out
}

// payloadSize is the fixed payload length of each non-utf8 constant.
var payloadSize = map[uint8]int{
	TagInteger:            4,
	TagFloat:              4,
	TagLong:               8,
	TagDouble:             8,
	TagString:             2,
	TagFieldref:           4,
	TagMethodref:          4,
	TagInterfaceMethodref: 4,
	TagNameAndType:        4,
	TagMethodHandle:       3,
	TagMethodType:         2,
	TagDynamic:            4,
	TagInvokeDynamic:      4,
	TagModule:             2,
	TagPackage:            2,
}

// ReadClassFile parses a class file up to and including its interface table.
func ReadClassFile(r io.Reader) (*ClassFile, error) {
	br := &byteReader{r: bufio.NewReader(r)}

	if magic := br.u4(); br.err == nil && magic != Magic {
		return nil, fmt.Errorf("%w: bad magic 0x%08X", ErrNotClassFile, magic)
	}

	cf := &ClassFile{}
	cf.MinorVersion = br.u2()
	cf.MajorVersion = br.u2()

	count := int(br.u2())
	if br.err != nil {
		return nil, truncated(br.err)
	}
	cf.ConstantPool = make([]ConstantPoolEntry, count)

	for i := 1; i < count; i++ {
		tag := br.u1()
		if br.err != nil {
			return nil, truncated(br.err)
		}

		switch tag {
		case TagUtf8:
			n := int(br.u2())
			cf.ConstantPool[i] = &ConstantUtf8{Value: string(br.bytes(n))}
		case TagClass:
			cf.ConstantPool[i] = &ConstantClass{NameIndex: br.u2()}
		default:
			size, ok := payloadSize[tag]
			if !ok {
				return nil, fmt.Errorf("invalid constant pool tag %d at index %d", tag, i)
			}
			br.read(size)
			cf.ConstantPool[i] = &ConstantOther{tag: tag}
			// Long and Double take two slots.
			if tag == TagLong || tag == TagDouble {
				i++
			}
		}
	}

	cf.AccessFlags = br.u2()
	cf.ThisClass = br.u2()
	cf.SuperClass = br.u2()

	n := int(br.u2())
	if br.err != nil {
		return nil, truncated(br.err)
	}
	cf.Interfaces = make([]uint16, 0, n)
	for i := 0; i < n; i++ {
		cf.Interfaces = append(cf.Interfaces, br.u2())
	}
	if br.err != nil {
		return nil, truncated(br.err)
	}
	return cf, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("truncated class file: %w", io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("failed to read class file: %w", err)
}
