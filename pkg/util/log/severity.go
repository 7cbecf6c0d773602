// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"strconv"
	"strings"
)

// Severity identifies the sort of log: info, warning etc.
type Severity int32

// These constants identify the log levels in order of increasing Severity.
const (
	Severity_UNKNOWN Severity = iota
	Severity_INFO
	Severity_WARNING
	Severity_ERROR
	Severity_FATAL
	// Severity_NONE is only used as a threshold and suppresses all output.
	Severity_NONE
)

const severityChar = "?IWEF"

var severityName = []string{
	Severity_UNKNOWN: "UNKNOWN",
	Severity_INFO:    "INFO",
	Severity_WARNING: "WARNING",
	Severity_ERROR:   "ERROR",
	Severity_FATAL:   "FATAL",
	Severity_NONE:    "NONE",
}

// String implements fmt.Stringer.
func (s Severity) String() string {
	if i := int(s); i >= 0 && i < len(severityName) {
		return severityName[i]
	}
	return strconv.FormatInt(int64(s), 10)
}

// SeverityByName attempts to parse the passed in string into a severity. (i.e.
// ERROR, INFO). If it succeeds, the returned bool is set to true.
func SeverityByName(s string) (Severity, bool) {
	s = strings.ToUpper(s)
	for i, name := range severityName {
		if name == s {
			return Severity(i), true
		}
	}
	return 0, false
}

func (s Severity) char() byte {
	if s > Severity_UNKNOWN && s < Severity_NONE {
		return severityChar[s]
	}
	return severityChar[0]
}
