package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pybossa/pbs/internal/files/filesystem"
	"github.com/pybossa/pbs/pkg/pbs"
)

//go:embed all:templates
var templatesFS embed.FS

// DefaultTemplate is used when no template is named.
const DefaultTemplate = "basic"

var shortNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Options describes the project to create.
type Options struct {
	Name       string
	ShortName  string
	Template   string
	TargetPath string
}

// Scaffolder handles project initialization from templates
type Scaffolder struct {
	source filesystem.FileSystemProvider
	target filesystem.FileSystemProvider
	logger pbs.Logger
}

// NewScaffolder creates a Scaffolder that writes through target.
// Panics if target or logger is nil.
func NewScaffolder(target filesystem.FileSystemProvider, logger pbs.Logger) *Scaffolder {
	if target == nil {
		panic("target cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Scaffolder{
		source: filesystem.NewEmbedFileSystem(templatesFS, "templates"),
		target: target,
		logger: logger,
	}
}

// CreateProject writes the template files for opts into opts.TargetPath and
// returns the paths written, relative to the target.
func (s *Scaffolder) CreateProject(opts Options) ([]string, error) {
	if opts.Template == "" {
		opts.Template = DefaultTemplate
	}
	if opts.ShortName == "" {
		opts.ShortName = DeriveShortName(opts.Name)
	}
	if strings.TrimSpace(opts.Name) == "" {
		return nil, fmt.Errorf("%w: project name is required", pbs.ErrUsage)
	}
	if !shortNamePattern.MatchString(opts.ShortName) {
		return nil, fmt.Errorf("%w: invalid short name %q (use lowercase letters, digits, '-' and '_')", pbs.ErrUsage, opts.ShortName)
	}

	entries, err := s.source.ReadDir(opts.Template)
	if err != nil {
		return nil, fmt.Errorf("template '%s' not found: %w", opts.Template, err)
	}

	isEmpty, err := s.isDirectoryEmpty(opts.TargetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check target directory: %w", err)
	}
	if !isEmpty {
		return nil, fmt.Errorf("target directory '%s' is not empty\n\npbs init requires an empty directory to avoid overwriting existing files.", opts.TargetPath)
	}

	s.logger.Verbose("Creating project '%s' at %s with template '%s'", opts.ShortName, opts.TargetPath, opts.Template)

	var written []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := s.source.ReadFile(path.Join(opts.Template, entry.Name()))
		if err != nil {
			return written, fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		target := filepath.Join(opts.TargetPath, entry.Name())
		s.logger.Verbose("Creating file: %s", entry.Name())
		if err := s.target.WriteFile(target, []byte(processTemplate(string(content), opts)), 0644); err != nil {
			return written, fmt.Errorf("failed to write file %s: %w", target, err)
		}
		written = append(written, entry.Name())
	}

	sort.Strings(written)
	return written, nil
}

// processTemplate replaces template variables in content
func processTemplate(content string, opts Options) string {
	content = strings.ReplaceAll(content, "{{PROJECT_NAME}}", opts.Name)
	content = strings.ReplaceAll(content, "{{SHORT_NAME}}", opts.ShortName)
	return content
}

// DeriveShortName lower-cases name and joins its words with '-'.
func DeriveShortName(name string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
			lastDash = false
		case !lastDash:
			sb.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(sb.String(), "-")
}

// ListTemplates returns available template names
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var templates []string
	for _, entry := range entries {
		if entry.IsDir() {
			templates = append(templates, entry.Name())
		}
	}

	return templates, nil
}

// isDirectoryEmpty checks if a directory is empty or doesn't exist.
func (s *Scaffolder) isDirectoryEmpty(dir string) (bool, error) {
	info, err := s.target.Stat(dir)
	if err != nil {
		if isNotExist(err) {
			return true, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("path exists but is not a directory")
	}

	entries, err := s.target.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// BuildFileTree renders files under root as a one-level tree.
func BuildFileTree(root string, files []string) string {
	var sb strings.Builder
	sb.WriteString(root + "/\n")
	for i, name := range files {
		branch := "├── "
		if i == len(files)-1 {
			branch = "└── "
		}
		sb.WriteString(branch + name + "\n")
	}
	return sb.String()
}
