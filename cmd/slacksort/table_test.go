// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/theckman/slacksort"
)

func lineWith(t *testing.T, out, substr string) string {
	t.Helper()

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}

	t.Fatalf("no line of %q contains %q", out, substr)

	return ""
}

func TestSectionsTable(t *testing.T) {
	sections := []slacksort.Section{
		{ID: "L0STARRED", Type: "stars"},
		{ID: "L0INCIDENTS", Name: "incidents", Emoji: "fire", Type: "standard",
			ChannelIDsPage: slacksort.ChannelIDsPage{ChannelIDs: []string{"C9"}, Count: 14}},
		{ID: "L0ONCALL", Name: "oncall", Type: "standard",
			ChannelIDsPage: slacksort.ChannelIDsPage{ChannelIDs: []string{"C1", "C2"}}},
	}

	out := sectionsTable(sections, "incidents")

	tests := []struct {
		n    string
		id   string
		want []string
		size string
	}{
		{n: "target", id: "L0INCIDENTS", want: []string{"incidents *", ":fire:"}, size: "14"},
		{n: "count_lags_ids", id: "L0ONCALL", want: []string{"oncall "}, size: "2"},
		{n: "no_name", id: "L0STARRED", want: []string{"stars"}, size: "0"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.n, func(t *testing.T) {
			line := lineWith(t, out, tt.id)

			for _, w := range tt.want {
				if !strings.Contains(line, w) {
					t.Fatalf("row %q does not contain %q", line, w)
				}
			}

			if !strings.HasSuffix(strings.TrimSpace(line), " "+tt.size+" │") {
				t.Fatalf("row %q does not end with a channel count of %s", line, tt.size)
			}
		})
	}

	if strings.Contains(lineWith(t, out, "L0ONCALL"), "*") {
		t.Fatal("a section other than the target is marked")
	}
}

func TestBatchesTable(t *testing.T) {
	var ids, names []string

	for i := 0; i < 12; i++ {
		ids = append(ids, fmt.Sprintf("C%02d", i))
		names = append(names, fmt.Sprintf("inc-service-%02d", i))
	}

	batches := []slacksort.Batch{
		{Page: 1, ChannelIDs: []string{"C1"}, ChannelNames: []string{"inc-db"}},
		{Page: 3, ChannelIDs: ids, ChannelNames: names},
	}

	out := batchesTable(batches)

	footer := lineWith(t, strings.ToLower(out), "total")
	if !strings.Contains(footer, " 13 ") {
		t.Fatalf("footer %q does not total 13 channels", footer)
	}

	if !strings.Contains(lineWith(t, out, "inc-db"), " 1 ") {
		t.Fatal("first page row is missing its count")
	}

	var wrapped int

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "inc-service-") {
			wrapped++
		}

		if n := utf8.RuneCountInString(line); n > channelsWidth+30 {
			t.Fatalf("line is %d runes wide, channel names should wrap: %q", n, line)
		}
	}

	if wrapped < 2 {
		t.Fatalf("channel names of the second page span %d lines, want them wrapped", wrapped)
	}
}
