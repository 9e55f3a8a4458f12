// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz
// +build gofuzz

package records

import (
	"bytes"
	"reflect"

	"github.com/dsnet/matchstat/source"
)

func Fuzz(data []byte) int {
	recs, err := source.ReadRecords(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	testRoundTrip(recs)
	return 1 // Favor valid inputs
}

// testRoundTrip formats the records in their original format and checks
// that parsing the result yields the same records.
func testRoundTrip(want []source.Record) {
	var bb bytes.Buffer
	for _, r := range want {
		if r.Qual != nil {
			bb.WriteString("@" + r.Name + "\n")
			bb.Write(r.Seq)
			bb.WriteString("\n+\n")
			bb.Write(r.Qual)
			bb.WriteString("\n")
		} else {
			bb.WriteString(">" + r.Name + "\n")
			bb.Write(r.Seq)
			bb.WriteString("\n")
		}
	}
	got, err := source.ReadRecords(&bb)
	if err != nil {
		panic(err)
	}
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		panic("mismatching records")
	}
}
