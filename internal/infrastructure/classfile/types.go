// Package classfile reads the header of Java class files and locates them
// on a class path.
package classfile

import "fmt"

// Magic is the first word of every class file.
const Magic = 0xCAFEBABE

// Constant pool tags.
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldref           = 9
	TagMethodref          = 10
	TagInterfaceMethodref = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// Access flags
const (
	AccPublic     = 0x0001
	AccFinal      = 0x0010
	AccSuper      = 0x0020
	AccInterface  = 0x0200
	AccAbstract   = 0x0400
	AccAnnotation = 0x2000
	AccEnum       = 0x4000
	AccModule     = 0x8000
)

// ClassFile is the part of a .class file needed to identify a class and
// its direct supertypes. Fields, methods and attributes are not read.
type ClassFile struct {
	ConstantPool []ConstantPoolEntry
	Interfaces   []uint16
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
}

// ConstantPoolEntry is an interface implemented by all constant pool types.
type ConstantPoolEntry interface {
	Tag() uint8
}

type ConstantUtf8 struct {
	Value string
}

func (c *ConstantUtf8) Tag() uint8 { return TagUtf8 }

type ConstantClass struct {
	NameIndex uint16
}

func (c *ConstantClass) Tag() uint8 { return TagClass }

// ConstantOther stands for any entry whose payload is skipped.
type ConstantOther struct {
	tag uint8
}

func (c *ConstantOther) Tag() uint8 { return c.tag }

// ClassName returns the internal name of the class itself.
func (cf *ClassFile) ClassName() (string, error) {
	return cf.classNameAt(cf.ThisClass)
}

// SuperClassName returns the internal name of the direct superclass, or ""
// for java/lang/Object and module-info.
func (cf *ClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.classNameAt(cf.SuperClass)
}

// InterfaceNames returns the direct superinterfaces in declaration order.
func (cf *ClassFile) InterfaceNames() ([]string, error) {
	names := make([]string, 0, len(cf.Interfaces))
	for _, idx := range cf.Interfaces {
		n, err := cf.classNameAt(idx)
		if err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, nil
}

func (cf *ClassFile) classNameAt(idx uint16) (string, error) {
	class, ok := cf.entry(idx).(*ConstantClass)
	if !ok {
		return "", fmt.Errorf("constant pool index %d is not a class", idx)
	}
	utf8, ok := cf.entry(class.NameIndex).(*ConstantUtf8)
	if !ok {
		return "", fmt.Errorf("constant pool index %d is not a utf8 string", class.NameIndex)
	}
	return utf8.Value, nil
}

func (cf *ClassFile) entry(idx uint16) ConstantPoolEntry {
	if int(idx) >= len(cf.ConstantPool) {
		return nil
	}
	return cf.ConstantPool[idx]
}
