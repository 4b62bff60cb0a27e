// Copyright © 2017 Microsoft <wastore@microsoft.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package common

import (
	"fmt"
	"io"
	"log"
	"path"
	"runtime"
	"strings"
	"time"
)

type ILogger interface {
	ShouldLog(level LogLevel) bool
	Log(level LogLevel, msg string)
	Panic(err error)
}

type ILoggerCloser interface {
	ILogger
	CloseLog()
}

type ILoggerResetable interface {
	OpenLog()
	MinimumLogLevel() LogLevel
	ILoggerCloser
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

// LogLevelOverrideLogger wraps another logger and clamps everything to a
// locally chosen minimum, regardless of what the wrapped logger would have
// allowed. Used by backends that want to force a quieter (or louder) log
// level than the scan's ambient one, e.g. a remote opener that wants to
// always surface retries at Warning.
type LogLevelOverrideLogger struct {
	ILoggerResetable
	MinimumLevelToLog LogLevel
}

func (l LogLevelOverrideLogger) MinimumLogLevel() LogLevel {
	return l.MinimumLevelToLog
}

func (l LogLevelOverrideLogger) ShouldLog(level LogLevel) bool {
	if level == LogNone {
		return false
	}
	return level <= l.MinimumLevelToLog
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

const maxLogSize = 500 * 1024 * 1024

// lineEnding is "\n" unconditionally: nothing in this package writes to a
// console that cares about CRLF.
const lineEnding = "\n"

// PanicIfErr panics if err is non-nil. Used only at points where failure
// is a programming error (e.g. a log file that itself can't be opened),
// never for scan-data errors, which always flow back through ScanError.
func PanicIfErr(err error) {
	if err != nil {
		panic(err)
	}
}

// scanLogger is the ambient logger for one Source's lifetime: one rotating
// file per ScanID.
type scanLogger struct {
	scanID            ScanID
	minimumLevelToLog LogLevel
	file              io.WriteCloser
	logFileFolder     string
	logger            *log.Logger
	sanitizer         LogSanitizer
}

func NewScanLogger(scanID ScanID, minimumLevelToLog LogLevel, logFileFolder string) ILoggerResetable {
	return &scanLogger{
		scanID:            scanID,
		minimumLevelToLog: minimumLevelToLog,
		logFileFolder:     logFileFolder,
		sanitizer:         NewColScanLogSanitizer(),
	}
}

func (sl *scanLogger) OpenLog() {
	if sl.minimumLevelToLog == LogNone {
		return
	}

	file, err := NewRotatingWriter(path.Join(sl.logFileFolder, sl.scanID.String()+".log"), maxLogSize)
	PanicIfErr(err)

	sl.file = file

	flags := log.LstdFlags | log.LUTC
	utcMessage := fmt.Sprintf("Log times are in UTC. Local time is %s", time.Now().Format("2 Jan 2006 15:04:05"))

	sl.logger = log.New(sl.file, "", flags)
	sl.logger.Println("ColScanVersion ", Version)
	sl.logger.Println("OS-Environment ", runtime.GOOS)
	sl.logger.Println("OS-Architecture ", runtime.GOARCH)
	sl.logger.Println(utcMessage)
}

func (sl *scanLogger) MinimumLogLevel() LogLevel {
	return sl.minimumLevelToLog
}

func (sl *scanLogger) ShouldLog(level LogLevel) bool {
	if level == LogNone {
		return false
	}
	return level <= sl.minimumLevelToLog
}

func (sl *scanLogger) CloseLog() {
	if sl.minimumLevelToLog == LogNone {
		return
	}

	sl.logger.Println("Closing Log")
	_ = sl.file.Close() // If it was already closed, that's alright. We wanted to close it, anyway.
}

func (sl scanLogger) Log(loglevel LogLevel, msg string) {
	// ensure all secrets (e.g. SAS tokens embedded in a remote source's URI) are redacted
	msg = sl.sanitizer.SanitizeLogMessage(msg)

	if lineEnding != "\n" {
		msg = strings.Replace(msg, "\n", lineEnding, -1)
	}
	if sl.ShouldLog(loglevel) {
		sl.logger.Println(msg)
	}
}

func (sl scanLogger) Panic(err error) {
	sl.logger.Println(err) // log the error first, so it reaches the log file before the panic
	panic(err)
}

type causer interface {
	Cause() error
}

// Cause walks all the preceding errors and return the originating error.
func Cause(err error) error {
	for err != nil {
		cause, ok := err.(causer)
		if !ok {
			break
		}
		err = cause.Cause()
	}
	return err
}
