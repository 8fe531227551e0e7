package build

import (
	"path/filepath"
)

// Template file names inside the template directory.
const (
	TemplateFile     = "template.tex"
	LogoTemplateFile = "logo_template.eps"
	StyleFile        = "songs.sty"
)

// Work directory file names.
const (
	LogoFile = "logo.eps"
	LockFile = ".songbook.lock"
)

// WorkPaths resolves the files a build reads and writes.
type WorkPaths struct {
	templateDir string
	workDir     string
}

// NewWorkPaths creates a new WorkPaths for a template and a work directory.
func NewWorkPaths(templateDir, workDir string) *WorkPaths {
	return &WorkPaths{templateDir: templateDir, workDir: workDir}
}

// ==================== Template Paths ====================

// Template returns the master document template.
func (p *WorkPaths) Template() string {
	return filepath.Join(p.templateDir, TemplateFile)
}

// LogoTemplate returns the EPS logo template.
func (p *WorkPaths) LogoTemplate() string {
	return filepath.Join(p.templateDir, LogoTemplateFile)
}

// Style returns the songs package style file shipped with the template.
func (p *WorkPaths) Style() string {
	return filepath.Join(p.templateDir, StyleFile)
}

// ==================== Work Paths ====================

// Work returns the work directory.
func (p *WorkPaths) Work() string {
	return p.workDir
}

// Logo returns the recoloured logo.
func (p *WorkPaths) Logo() string {
	return filepath.Join(p.workDir, LogoFile)
}

// WorkStyle returns the style file copied into the work directory.
func (p *WorkPaths) WorkStyle() string {
	return filepath.Join(p.workDir, StyleFile)
}

// Lock returns the build lock file.
func (p *WorkPaths) Lock() string {
	return filepath.Join(p.workDir, LockFile)
}
