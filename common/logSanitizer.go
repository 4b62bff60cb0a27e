// Copyright Microsoft <wastore@microsoft.com>
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
	"regexp"
)

// LogSanitizer can be implemented to clean secrets from lines logged by a Logger.
type LogSanitizer interface {
	SanitizeLogMessage(raw string) string
}

// colScanLogSanitizer performs string-replacement based log redaction. This
// serves as a backstop, to help make sure that secrets don't get logged: a
// remote opener's URI (e.g. an Azure Blob SAS, or an S3 presigned URL) can
// end up embedded in a wrapped I/O error, and this filters those out before
// the message reaches disk. It replaces with "-REDACTED-" the value of any key
// whose name ends in sig, signature, token or x-amz-credential, both in URL
// query strings and in "key=value" / "key: value" text separated by ';' or ','.
type colScanLogSanitizer struct {
	sigParam *regexp.Regexp
}

func NewColScanLogSanitizer() LogSanitizer {
	return &colScanLogSanitizer{
		sigParam: regexp.MustCompile(`(?i)(^|[?&;,\s])([\w-]*(?:sig|signature|token|x-amz-credential)\s*[=:]\s*)[^&;,\s]+`),
	}
}

func (s *colScanLogSanitizer) SanitizeLogMessage(raw string) string {
	return s.sigParam.ReplaceAllString(raw, "${1}${2}-REDACTED-")
}
