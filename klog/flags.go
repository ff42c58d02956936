package klog

import (
	"flag"

	"github.com/cosmosnicolaou/llog"
)

// Flags holds the command-line-settable subset of logger configuration
// (no per-module verbosity:
// a kernel binary does not have enough source files to make -vmodule
// worthwhile).
type Flags struct {
	ToStderr        bool
	AlsoToStderr    bool
	LogDir          string
	Verbosity       Level
	StderrThreshold StderrThreshold
}

// RegisterFlags registers the logging flags on fs with the given prefix.
func RegisterFlags(fs *flag.FlagSet, lf *Flags, prefix string) {
	lf.StderrThreshold = StderrThreshold(llog.ErrorLog)
	fs.Var(&lf.Verbosity, prefix+"v", "log level for V logs")
	fs.StringVar(&lf.LogDir, prefix+"log_dir", "", "if non-empty, write log files to this directory")
	fs.BoolVar(&lf.ToStderr, prefix+"logtostderr", false, "log to standard error instead of files")
	fs.BoolVar(&lf.AlsoToStderr, prefix+"alsologtostderr", true, "log to standard error as well as files")
	fs.Var(&lf.StderrThreshold, prefix+"stderrthreshold", "logs at or above this threshold go to stderr")
}

// Apply configures l according to the parsed flags.
func (lf *Flags) Apply(l *Logger) error {
	return l.ConfigureLogger(
		Level(lf.Verbosity),
		LogDir(lf.LogDir),
		LogToStderr(lf.ToStderr),
		AlsoLogToStderr(lf.AlsoToStderr),
		lf.StderrThreshold,
	)
}
