package logging

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// SetupCrashHandler installs signal handlers that log fatal native signals
// before the process dies. GTK and WebKit run native code; a plain SIGSEGV
// otherwise leaves no trace in our logs. A non-empty crashDir additionally
// receives a stack report file, for when stderr is gone by the time anyone
// looks.
func SetupCrashHandler(logger zerolog.Logger, crashDir string) {
	c := make(chan os.Signal, 1)

	signal.Notify(c,
		syscall.SIGSEGV,
		syscall.SIGABRT,
		syscall.SIGFPE,
		syscall.SIGBUS,
		syscall.SIGILL,
	)

	go func() {
		sig := <-c
		handleCrash(logger, sig, crashDir)
	}()
}

func handleCrash(logger zerolog.Logger, sig os.Signal, crashDir string) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	logger.Error().
		Str("signal", sig.String()).
		Str("go_version", runtime.Version()).
		Str("os", runtime.GOOS).
		Str("arch", runtime.GOARCH).
		Uint64("alloc_kb", m.Alloc/1024).
		Uint64("sys_kb", m.Sys/1024).
		Msg("caught fatal signal")

	stack := debug.Stack()
	logger.Error().Msg(string(stack))

	if crashDir != "" {
		if path, err := writeCrashReport(crashDir, sig.String(), stack); err != nil {
			logger.Error().Err(err).Msg("could not write crash report")
		} else {
			logger.Error().Str("report", path).Msg("crash report written")
		}
	}

	if s, ok := sig.(syscall.Signal); ok {
		os.Exit(128 + int(s))
	}
	os.Exit(1)
}

// writeCrashReport dumps the signal name and stack into a timestamped file
// under dir, creating dir if needed. Returns the file path.
func writeCrashReport(dir, signame string, stack []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, "crash-"+time.Now().Format("20060102-150405")+".log")
	content := fmt.Sprintf("signal: %s\n\n%s", signame, stack)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// LogPanic logs panic information and re-panics. Intended for use with
// recover() at goroutine entry points:
//
//	defer func() {
//		if r := recover(); r != nil {
//			logging.LogPanic(logger, r)
//		}
//	}()
func LogPanic(logger zerolog.Logger, r any) {
	logger.Error().Interface("panic", r).Msg("panic")
	logger.Error().Msg(string(debug.Stack()))
	panic(r)
}
