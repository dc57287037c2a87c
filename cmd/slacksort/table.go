// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/theckman/slacksort"
)

// channelsWidth is where long lists of channel names wrap.
const channelsWidth = 60

// sectionsTable lists the sidebar sections, marking the one channels are
// sorted in to with a '*'.
func sectionsTable(sections []slacksort.Section, target string) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"ID", "Name", "Emoji", "Type", "Channels"})

	for _, s := range sections {
		name := s.Name
		if name == target {
			name += " *"
		}

		emoji := ""
		if s.Emoji != "" {
			emoji = ":" + s.Emoji + ":"
		}

		tw.AppendRow(table.Row{s.ID, name, emoji, s.Type, sectionSize(s)})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

// sectionSize is the number of channels in the section. The count Slack
// reports can lag the first page of IDs it returns.
func sectionSize(s slacksort.Section) int {
	if n := len(s.ChannelIDsPage.ChannelIDs); n > s.ChannelIDsPage.Count {
		return n
	}

	return s.ChannelIDsPage.Count
}

// batchesTable lists the channels moved from each page of the sweep, with the
// total in the footer.
func batchesTable(batches []slacksort.Batch) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Page", "Moved", "Channels"})

	var total int

	for _, b := range batches {
		total += len(b.ChannelIDs)
		tw.AppendRow(table.Row{b.Page, len(b.ChannelIDs), strings.Join(b.ChannelNames, ", ")})
	}

	tw.AppendFooter(table.Row{"Total", total, ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
		{Number: 3, WidthMax: channelsWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	return tw.Render()
}

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	return tw
}
