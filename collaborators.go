package dostext

import (
	"github.com/spf13/afero"
)

// ResourceLocator resolves the on-disk (or embedded) directory that holds a
// named resource bundle, such as the "mapping" directory containing
// MAIN.TXT and its satellite files. Implementations decide what "path"
// means for their afero.Fs: an OS directory, a zip entry prefix, an
// in-memory fixture root.
type ResourceLocator interface {
	ResourcePath(dirName string) string
}

// CodePageSource reports the DOS code page currently active on the
// emulated machine, consulted by UTF8ToDOS and DOSToUTF8 when the caller
// does not name a code page explicitly.
type CodePageSource interface {
	CurrentCodePage() uint16
}

// Architecture reports host capabilities that affect fallback behavior.
// SupportsCodePageSwitching distinguishes machines that can only ever use
// their one built-in code page (no INT 21h/6503h) from ones that switch
// code pages at runtime; the former never attempt a page-specific mapping
// outside the active one.
type Architecture interface {
	SupportsCodePageSwitching() bool
}

// Logger receives the transcoder's diagnostics. Warningf is used for
// recoverable, data-dependent conditions (an unmapped code point, an
// undefined code page); Errorf is used for configuration problems that
// make a mapping unusable.
type Logger interface {
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
}

// tracingLogger adapts schuko/tracing, the teacher's own logging package,
// to the Logger interface.
type tracingLogger struct{}

func (tracingLogger) Warningf(format string, args ...any) { tracer().Infof(format, args...) }
func (tracingLogger) Errorf(format string, args ...any)   { tracer().Errorf(format, args...) }

// fixedCodePageSource always reports the same code page, the default
// behavior for a Transcoder constructed without WithCodePageSource.
type fixedCodePageSource uint16

func (s fixedCodePageSource) CurrentCodePage() uint16 { return uint16(s) }

// fullArchitecture reports an EGA-or-above host that can switch code
// pages freely, the default behavior for a Transcoder constructed without
// WithArchitecture.
type fullArchitecture struct{}

func (fullArchitecture) SupportsCodePageSwitching() bool { return true }

// Option configures optional collaborators on a Transcoder constructed via
// New or NewFS.
type Option func(*Transcoder)

// WithCodePageSource overrides the source the Transcoder consults for the
// active code page when a call does not name one explicitly.
func WithCodePageSource(source CodePageSource) Option {
	return func(t *Transcoder) { t.codePageSource = source }
}

// WithArchitecture overrides the host capability profile the Transcoder
// uses to decide whether code-page-specific fallbacks are available.
func WithArchitecture(arch Architecture) Option {
	return func(t *Transcoder) { t.architecture = arch }
}

// WithLogger overrides where the Transcoder sends its diagnostics.
func WithLogger(logger Logger) Option {
	return func(t *Transcoder) { t.logger = logger }
}

// WithDefaultCodePage installs a CodePageSource that always reports cp,
// replacing any source set by an earlier option.
func WithDefaultCodePage(cp uint16) Option {
	return func(t *Transcoder) { t.codePageSource = fixedCodePageSource(cp) }
}

// New constructs a Transcoder that reads its mapping files from the real
// filesystem, rooted at whatever directory resources resolves.
func New(resources ResourceLocator, opts ...Option) *Transcoder {
	return NewFS(afero.NewOsFs(), resources, opts...)
}

// NewFS constructs a Transcoder that reads its mapping files from fs,
// letting tests substitute an afero.NewMemMapFs fixture for the real
// filesystem.
func NewFS(fs afero.Fs, resources ResourceLocator, opts ...Option) *Transcoder {
	t := &Transcoder{
		logger:         tracingLogger{},
		codePageSource: fixedCodePageSource(defaultCodePage),
		architecture:   fullArchitecture{},
	}
	t.registry = newRegistry(fs, resources, loggerAdapter{t})
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// loggerAdapter lets the registry log through whatever Logger is
// installed on the Transcoder at call time, even though the registry is
// constructed before Options run.
type loggerAdapter struct{ t *Transcoder }

func (a loggerAdapter) Warningf(format string, args ...any) { a.t.logger.Warningf(format, args...) }
func (a loggerAdapter) Errorf(format string, args ...any)   { a.t.logger.Errorf(format, args...) }

// osResourceLocator resolves dirName as a direct child of Root.
type osResourceLocator struct {
	Root string
}

// ResourcePath implements ResourceLocator by joining Root and dirName.
func (l osResourceLocator) ResourcePath(dirName string) string {
	return l.Root + "/" + dirName
}

// NewOSResourceLocator returns a ResourceLocator rooted at root, the
// common case of a mapping/ directory shipped alongside the program.
func NewOSResourceLocator(root string) ResourceLocator {
	return osResourceLocator{Root: root}
}
