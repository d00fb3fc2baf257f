package loader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	cferrors "github.com/daimatz/jclass/pkg/errors"
)

// Source provides class file bytes by internal class name
// ("java/lang/Object").
type Source interface {
	// Load returns the bytes of the named class. A class the source does
	// not contain yields an error matching errors.ErrNotFound.
	Load(name string) ([]byte, error)
	// Names lists every class the source contains, sorted.
	Names() ([]string, error)
	// String describes the source for logs and error messages.
	String() string
}

// Open picks a Source for path: a directory, a .jar/.zip archive, a .jmod
// file, or a single .class file.
func Open(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return NewDirSource(path), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jar", ".zip":
		return NewJarSource(path), nil
	case ".jmod":
		return NewJmodSource(path), nil
	case ".class":
		return NewFileSource(path), nil
	}
	return nil, fmt.Errorf("loader: unsupported source %s", path)
}

// DirSource loads classes from a classpath directory.
type DirSource struct {
	Root string
}

// NewDirSource creates a new DirSource.
func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

func (s *DirSource) String() string { return s.Root }

func (s *DirSource) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(name)+".class"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cferrors.NotFound("class", name)
		}
		return nil, fmt.Errorf("dir: reading %s: %w", name, err)
	}
	return data, nil
}

func (s *DirSource) Names() ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".class") {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		names = append(names, strings.TrimSuffix(filepath.ToSlash(rel), ".class"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dir: walking %s: %w", s.Root, err)
	}
	sort.Strings(names)
	return names, nil
}

// FileSource serves a single .class file under the name derived from its
// base name.
type FileSource struct {
	Path string
}

// NewFileSource creates a new FileSource.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) String() string { return s.Path }

func (s *FileSource) name() string {
	return strings.TrimSuffix(filepath.Base(s.Path), ".class")
}

func (s *FileSource) Load(name string) ([]byte, error) {
	if name != s.name() {
		return nil, cferrors.NotFound("class", name)
	}
	return os.ReadFile(s.Path)
}

func (s *FileSource) Names() ([]string, error) {
	return []string{s.name()}, nil
}

// jmodMagic prefixes the zip payload of a JDK jmod file.
var jmodMagic = []byte("JM\x01\x00")

// ArchiveSource loads classes from a jar or jmod file. The archive is read
// into memory on first use.
type ArchiveSource struct {
	Path string

	prefix string // entry prefix, "classes/" for jmods
	header []byte // bytes preceding the zip payload

	once    sync.Once
	openErr error
	entries map[string]*zip.File
}

// NewJarSource creates an ArchiveSource for a jar file.
func NewJarSource(path string) *ArchiveSource {
	return &ArchiveSource{Path: path}
}

// NewJmodSource creates an ArchiveSource for a JDK jmod file.
func NewJmodSource(path string) *ArchiveSource {
	return &ArchiveSource{Path: path, prefix: "classes/", header: jmodMagic}
}

func (s *ArchiveSource) String() string { return s.Path }

func (s *ArchiveSource) ensureOpen() error {
	s.once.Do(func() {
		s.openErr = s.open()
	})
	return s.openErr
}

func (s *ArchiveSource) open() error {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("archive: reading %s: %w", s.Path, err)
	}
	if len(s.header) > 0 {
		if !bytes.HasPrefix(data, s.header) {
			return fmt.Errorf("archive: %s: missing jmod header", s.Path)
		}
		data = data[len(s.header):]
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("archive: opening zip %s: %w", s.Path, err)
	}

	s.entries = make(map[string]*zip.File)
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, s.prefix) || !strings.HasSuffix(f.Name, ".class") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(f.Name, s.prefix), ".class")
		s.entries[name] = f
	}
	Logger().Debug("opened archive",
		zap.String("path", s.Path),
		zap.Int("classes", len(s.entries)))
	return nil
}

func (s *ArchiveSource) Load(name string) ([]byte, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	f, ok := s.entries[name]
	if !ok {
		return nil, cferrors.NotFound("class", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("archive: opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("archive: reading %s: %w", f.Name, err)
	}
	return data, nil
}

func (s *ArchiveSource) Names() ([]string, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.entries))
	for n := range s.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
