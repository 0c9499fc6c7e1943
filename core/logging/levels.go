package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables to configure log levels.
const (
	EnvLog    = "GODPDK_LOG"
	EnvLogPkg = "GODPDK_LOG_"
)

var zapLevels = map[byte]zapcore.Level{
	'V': zap.DebugLevel,
	'D': zap.DebugLevel,
	'I': zap.InfoLevel,
	'W': zap.WarnLevel,
	'E': zap.ErrorLevel,
	'F': zap.DPanicLevel,
	'N': zap.DPanicLevel,
}

// PkgLevel is the adjustable log level of one package.
type PkgLevel struct {
	name     string
	letter   byte
	atomic   zap.AtomicLevel
	onChange func()
}

// Package returns the package name.
func (pl PkgLevel) Package() string { return pl.name }

// Level returns the current level letter.
func (pl PkgLevel) Level() byte { return pl.letter }

// SetCallback registers a function invoked after each level change.
func (pl *PkgLevel) SetCallback(cb func()) {
	pl.onChange = cb
}

// SetLevel interprets the first letter of input as a log level.
// Unrecognized or empty input selects INFO.
func (pl *PkgLevel) SetLevel(input string) {
	defer pl.onChange()

	var ch byte
	if input != "" {
		ch = input[0]
	}
	lvl, ok := zapLevels[ch]
	if !ok {
		ch, lvl = 'I', zap.InfoLevel
	}
	pl.atomic.SetLevel(lvl)
	pl.letter = ch
}

var pkgLevels = map[string]*PkgLevel{}

// ListLevels returns the log levels of all initialized packages.
func ListLevels() (levels []PkgLevel) {
	for _, pl := range pkgLevels {
		levels = append(levels, *pl)
	}
	return levels
}

// FindLevel returns the log level of a package, or nil if uninitialized.
func FindLevel(pkg string) *PkgLevel {
	return pkgLevels[pkg]
}

// GetLevel returns the log level of a package, initializing it on first use.
func GetLevel(pkg string) *PkgLevel {
	if pl, ok := pkgLevels[pkg]; ok {
		return pl
	}
	pl := &PkgLevel{
		name:     pkg,
		atomic:   zap.NewAtomicLevel(),
		onChange: func() {},
	}
	pl.SetLevel(envLevel(pkg))
	pkgLevels[pkg] = pl
	return pl
}

func envLevel(pkg string) string {
	if v, ok := os.LookupEnv(EnvLogPkg + pkg); ok {
		return v
	}
	return os.Getenv(EnvLog)
}
