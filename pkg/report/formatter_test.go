package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"fleaflip/pkg/tarkov"
)

func intPtr(i int) *int {
	return &i
}

func testFormatter() *OutputFormatter {
	return &OutputFormatter{now: func() time.Time {
		return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	}}
}

func sampleCatalog(n int) tarkov.Catalog {
	records := make([]tarkov.RawItemRecord, n)
	for i := range records {
		records[i] = tarkov.RawItemRecord{
			Name:        fmt.Sprintf("Item %02d", i),
			ShortName:   fmt.Sprintf("I%d", i),
			Low24hPrice: intPtr(100),
			SellFor:     []tarkov.VendorOffer{{VendorName: "Therapist", Price: 1000 - i}},
		}
	}
	return tarkov.NewCatalog(records, tarkov.DefaultMarketVendor)
}

func TestFormatForTerminal(t *testing.T) {
	out := testFormatter().FormatForTerminal(sampleCatalog(5), 3)

	for _, want := range []string{
		ColumnHeader,
		"Showing 3 of 5 items",
		"  1. Item 00 :   900 (Therapist)",
		"  3. Item 02 :   898 (Therapist)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Item 03") {
		t.Error("terminal output exceeded the limit")
	}
}

func TestFormatForTerminalEmpty(t *testing.T) {
	out := testFormatter().FormatForTerminal(tarkov.Catalog{}, 10)
	if !strings.Contains(out, "No items") {
		t.Errorf("empty output = %q", out)
	}
}

func TestFormatForMarkdown(t *testing.T) {
	records := []tarkov.RawItemRecord{{
		Name: "Pack | of sugar", ShortName: "Sugar", Low24hPrice: intPtr(20000),
		SellFor: []tarkov.VendorOffer{{VendorName: "Therapist", Price: 23000}},
	}}
	out := testFormatter().FormatForMarkdown(tarkov.NewCatalog(records, tarkov.DefaultMarketVendor), 0)

	if !strings.HasPrefix(out, "# Flea flips (2026-10-15 12:00)") {
		t.Errorf("unexpected heading:\n%s", out)
	}
	if !strings.Contains(out, `| 1 | Pack \| of sugar | Sugar | 20000 | Therapist | 23000 | 3000 |`) {
		t.Errorf("row missing or pipe not escaped:\n%s", out)
	}
}

func TestFormatForDiscordFitsOneMessage(t *testing.T) {
	out := testFormatter().FormatForDiscord(sampleCatalog(200), 200)

	if len(out) > discordLimit {
		t.Errorf("discord output is %d chars, limit %d", len(out), discordLimit)
	}
	if !strings.HasPrefix(out, "```\n") || !strings.HasSuffix(out, "```") {
		t.Errorf("discord output is not a code block:\n%s", out)
	}
	if !strings.Contains(out, " 1. Item 00") {
		t.Errorf("discord output lost the first item:\n%s", out)
	}
}
