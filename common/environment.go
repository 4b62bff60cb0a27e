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
	"os"
)

type EnvironmentVariable struct {
	Name         string
	DefaultValue string
	Description  string
	Hidden       bool
}

// GetEnvironmentVariable gets the environment variable or its default value
func GetEnvironmentVariable(env EnvironmentVariable) string {
	value := os.Getenv(env.Name)
	if value == "" {
		return env.DefaultValue
	}
	return value
}

// ClearEnvironmentVariable clears the environment variable
func ClearEnvironmentVariable(variable EnvironmentVariable) {
	_ = os.Setenv(variable.Name, "")
}

// This array needs to be updated when a new public environment variable is added
var VisibleEnvironmentVariables = []EnvironmentVariable{
	EEnvironmentVariable.PrefetchSize(),
	EEnvironmentVariable.ConcurrencyValue(),
	EEnvironmentVariable.UseStatistics(),
	EEnvironmentVariable.UserAgentPrefix(),
}

var EEnvironmentVariable = EnvironmentVariable{}

// PrefetchSize controls how many readers the Prefetch Controller tries to
// keep initialized ahead of consumption. Defaults to 8.
func (EnvironmentVariable) PrefetchSize() EnvironmentVariable {
	return EnvironmentVariable{
		Name:         "COLSCAN_PREFETCH_SIZE",
		DefaultValue: "8",
		Description:  "Overrides the number of file readers the scan keeps initialized ahead of consumption.",
	}
}

// ConcurrencyValue overrides colscanbench's default --threads, which becomes
// ScanDescriptor.NThreads: the thread count passed to DetermineChunkSize and
// the number of batches a Source requests per poll. By default this is
// runtime.GOMAXPROCS(0). The reference decoder's concurrency limit is a
// separate setting (--max-concurrent-decodes).
func (EnvironmentVariable) ConcurrencyValue() EnvironmentVariable {
	return EnvironmentVariable{
		Name:        "COLSCAN_NUM_THREADS",
		Description: "Overrides how many threads are used to decode batches. By default, this is GOMAXPROCS.",
	}
}

// UseStatistics lets an operator turn statistics-based row-group pruning
// off for colscanbench runs, which set ScanDescriptor.UseStatistics from it
// (useful when diagnosing whether a predicate-pushdown bug is actually a
// pruning bug). ScanDescriptors built by other callers are not affected.
func (EnvironmentVariable) UseStatistics() EnvironmentVariable {
	return EnvironmentVariable{
		Name:         "COLSCAN_USE_STATISTICS",
		DefaultValue: "true",
		Description:  "Set to false to make colscanbench skip statistics-based row-group pruning.",
	}
}

func (EnvironmentVariable) UserAgentPrefix() EnvironmentVariable {
	return EnvironmentVariable{
		Name:        "COLSCAN_USER_AGENT_PREFIX",
		Description: "Prefix prepended to the User-Agent string sent to remote openers (Azure Blob, GCS, S3).",
	}
}
