// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package eventlog appends simple CSV rows to a file, for hosts that want a
// durable record of destruction events alongside the live snapshot feed.
package eventlog

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Append writes one CSV row of fields to filename, creating it if needed.
func Append(filename string, fields []interface{}) error {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	fieldStrings := make([]string, len(fields))
	for i, field := range fields {
		switch v := field.(type) {
		case float32, float64:
			fieldStrings[i] = fmt.Sprintf("%.2f", v)
		default:
			fieldStrings[i] = fmt.Sprint(v)
		}
	}

	if err := w.Write(fieldStrings); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
