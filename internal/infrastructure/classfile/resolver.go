package classfile

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/values"
)

// ErrClassNotFound is returned when no location holds the requested class.
var ErrClassNotFound = entities.ErrClassNotFound

// Resolver loads class headers from directories and jar files.
// It is safe for concurrent use.
type Resolver struct {
	logger    *slog.Logger
	jars      map[string]*zip.ReadCloser
	classpath []string
	mu        sync.Mutex
}

// NewResolver creates a resolver searching classpath when an entry has no
// source of its own.
func NewResolver(classpath []string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		logger:    logger,
		jars:      make(map[string]*zip.ReadCloser),
		classpath: classpath,
	}
}

// Resolve reads the class file for name. When source is set only that
// location is searched.
func (r *Resolver) Resolve(ctx context.Context, name values.ClassName, source string) (*entities.ResolvedClassInfo, error) {
	locations := r.classpath
	if source != "" {
		locations = []string{source}
	}

	for _, loc := range locations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := normalizeLocation(loc)
		cf, where, err := r.open(path, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load %s from %s: %w", name, loc, err)
		}

		r.logger.Debug("resolved class", "class", name.String(), "location", where)
		return toResolvedInfo(cf, where)
	}

	return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
}

// normalizeLocation turns a "file:" URL into a plain path.
func normalizeLocation(loc string) string {
	if !strings.HasPrefix(loc, "file:") {
		return loc
	}
	p := strings.TrimPrefix(loc, "file:")
	if strings.HasPrefix(p, "///") {
		p = p[2:]
	}
	return filepath.FromSlash(p)
}

func (r *Resolver) open(path string, name values.ClassName) (*ClassFile, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}

	if info.IsDir() {
		file := filepath.Join(path, filepath.FromSlash(name.FileName()))
		f, err := os.Open(file)
		if err != nil {
			return nil, "", err
		}
		defer func() { _ = f.Close() }()

		cf, err := ReadClassFile(f)
		return cf, file, err
	}

	jar, err := r.jar(path)
	if err != nil {
		return nil, "", err
	}
	f, err := jar.Open(name.FileName())
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	cf, err := ReadClassFile(f)
	return cf, path + "!/" + name.FileName(), err
}

// jar returns the cached archive for path, opening it on first use.
func (r *Resolver) jar(path string) (*zip.ReadCloser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if zr, ok := r.jars[path]; ok {
		return zr, nil
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	r.jars[path] = zr
	return zr, nil
}

// Close releases every cached archive.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for path, zr := range r.jars {
		if err := zr.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
		delete(r.jars, path)
	}
	return errors.Join(errs...)
}

func toResolvedInfo(cf *ClassFile, location string) (*entities.ResolvedClassInfo, error) {
	this, err := cf.ClassName()
	if err != nil {
		return nil, err
	}
	super, err := cf.SuperClassName()
	if err != nil {
		return nil, err
	}
	ifaces, err := cf.InterfaceNames()
	if err != nil {
		return nil, err
	}

	info := &entities.ResolvedClassInfo{
		Location:     location,
		MajorVersion: cf.MajorVersion,
		MinorVersion: cf.MinorVersion,
		AccessFlags:  cf.AccessFlags,
	}
	if info.Name, err = values.NewClassName(this); err != nil {
		return nil, err
	}
	if super != "" {
		if info.SuperName, err = values.NewClassName(super); err != nil {
			return nil, err
		}
	}
	for _, n := range ifaces {
		cn, err := values.NewClassName(n)
		if err != nil {
			return nil, err
		}
		info.InterfaceNames = append(info.InterfaceNames, cn)
	}
	return info, nil
}

var _ io.Closer = (*Resolver)(nil)
