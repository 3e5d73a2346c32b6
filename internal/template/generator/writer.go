package generator

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tacogips/autopilot/internal/debug"
)

// FileMode is the permission of every scaffold file.
const FileMode os.FileMode = 0644

// DirMode is the permission of created directories.
const DirMode os.FileMode = 0755

// Writer writes files to the filesystem.
type Writer interface {
	// WriteFile writes content to path with FileMode, replacing any existing file.
	WriteFile(path string, content []byte) error

	// CreateDir creates a directory and any necessary parent directories.
	CreateDir(path string) error

	// Exists checks if a file or directory exists at the given path.
	Exists(path string) bool

	// Remove deletes a file or an empty directory.
	Remove(path string) error

	// IsEmptyDir reports whether path is an existing directory without entries.
	IsEmptyDir(path string) bool

	// ReadFile returns the content of the file at path.
	ReadFile(path string) ([]byte, error)
}

// FSWriter implements Writer on top of an afero filesystem.
type FSWriter struct {
	fs afero.Fs
}

// NewFSWriter creates a Writer backed by fs.
func NewFSWriter(fs afero.Fs) *FSWriter {
	return &FSWriter{fs: fs}
}

// NewOSWriter creates a Writer for the real filesystem.
func NewOSWriter() *FSWriter {
	return NewFSWriter(afero.NewOsFs())
}

// Fs returns the underlying filesystem.
func (w *FSWriter) Fs() afero.Fs {
	return w.fs
}

// WriteFile writes content atomically using a temporary file and rename.
func (w *FSWriter) WriteFile(path string, content []byte) error {
	debug.Debug("[generator] Writing file: %s (size: %d bytes)", path, len(content))

	tempFile := path + ".tmp"
	f, err := w.fs.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileMode)
	if err != nil {
		return newGeneratorError(GeneratorWriteFailed, "failed to create temporary file", path, err)
	}

	_, err = f.Write(content)
	closeErr := f.Close()

	if err != nil {
		_ = w.fs.Remove(tempFile)
		return newGeneratorError(GeneratorWriteFailed, "failed to write file content", path, err)
	}
	if closeErr != nil {
		_ = w.fs.Remove(tempFile)
		return newGeneratorError(GeneratorWriteFailed, "failed to close file", path, closeErr)
	}

	// OpenFile honours the umask; the final mode is fixed regardless.
	if err := w.fs.Chmod(tempFile, FileMode); err != nil {
		_ = w.fs.Remove(tempFile)
		return newGeneratorError(GeneratorWriteFailed, "failed to set file mode", path, err)
	}

	if err := w.fs.Rename(tempFile, path); err != nil {
		_ = w.fs.Remove(tempFile)
		return newGeneratorError(GeneratorWriteFailed, "failed to rename temporary file", path, err)
	}

	debug.Debug("[generator] File written successfully: %s", path)
	return nil
}

// CreateDir creates a directory and any necessary parent directories.
// Creating an existing directory is not an error.
func (w *FSWriter) CreateDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	if err := w.fs.MkdirAll(path, DirMode); err != nil {
		return newGeneratorError(GeneratorWriteFailed, "failed to create directory", path, err)
	}
	return nil
}

// Exists checks if a file or directory exists at the given path.
func (w *FSWriter) Exists(path string) bool {
	_, err := w.fs.Stat(path)
	return err == nil
}

// Remove deletes a file or an empty directory.
func (w *FSWriter) Remove(path string) error {
	debug.Debug("[generator] Removing: %s", path)
	if err := w.fs.Remove(path); err != nil {
		return newGeneratorError(GeneratorRemoveFailed, "failed to remove", path, err)
	}
	return nil
}

// IsEmptyDir reports whether path is an existing directory without entries.
func (w *FSWriter) IsEmptyDir(path string) bool {
	info, err := w.fs.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	empty, err := afero.IsEmpty(w.fs, path)
	return err == nil && empty
}

// ReadFile returns the content of the file at path.
func (w *FSWriter) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(w.fs, path)
}

// ExistsIn returns an existence oracle for slash-separated paths relative to root.
func ExistsIn(w Writer, root string) func(string) bool {
	return func(rel string) bool {
		return w.Exists(filepath.Join(root, filepath.FromSlash(rel)))
	}
}
