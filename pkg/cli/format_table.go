// Copyright 2016 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/pflag"
)

type tableDisplayFormat int

const (
	tableDisplayTSV tableDisplayFormat = iota
	tableDisplayTable
)

var tableDisplayFormats = []string{
	tableDisplayTSV:   "tsv",
	tableDisplayTable: "table",
}

var _ pflag.Value = (*tableDisplayFormat)(nil)

// Type implements the pflag.Value interface.
func (f *tableDisplayFormat) Type() string { return "string" }

// String implements the pflag.Value interface.
func (f *tableDisplayFormat) String() string { return tableDisplayFormats[*f] }

// Set implements the pflag.Value interface.
func (f *tableDisplayFormat) Set(s string) error {
	for i, name := range tableDisplayFormats {
		if s == name {
			*f = tableDisplayFormat(i)
			return nil
		}
	}
	return errors.Newf("invalid table display format: %s (possible values: %s)",
		s, strings.Join(tableDisplayFormats, ", "))
}

func defaultTableDisplayFormat() tableDisplayFormat {
	if isInteractive {
		return tableDisplayTable
	}
	return tableDisplayTSV
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// printQueryOutput writes a list of rows with the given column names to
// 'w' in the requested format.
func printQueryOutput(
	w io.Writer, cols []string, rows [][]string, displayFormat tableDisplayFormat,
) error {
	switch displayFormat {
	case tableDisplayTable:
		table := tablewriter.NewWriter(w)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetHeader(cols)
		table.AppendBulk(rows)
		table.Render()
		_, err := fmt.Fprintf(w, "(%d row%s)\n", len(rows), pluralize(len(rows)))
		return err

	case tableDisplayTSV:
		csvWriter := csv.NewWriter(w)
		csvWriter.Comma = '\t'
		if err := csvWriter.Write(cols); err != nil {
			return err
		}
		return csvWriter.WriteAll(rows)

	default:
		return errors.AssertionFailedf("unhandled display format %d", displayFormat)
	}
}
