package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/jwebster45206/badge-adventure/pkg/state"
)

// certificate is what gets printed for one badge.
type certificate struct {
	Player   string
	Serial   string
	World    string
	Towns    []town
	Quests   int
	Done     int
	Complete bool
	Notebook []string
	Printed  time.Time
}

type town struct {
	Name string
	Done bool
}

func newCertificate(sess *state.Session, serial string, now time.Time) certificate {
	w := sess.World
	c := certificate{
		Player:   sess.Player.Name,
		Serial:   serial,
		World:    w.Name,
		Quests:   len(w.Quests),
		Complete: w.Completion.Flag != "" && sess.Flags.IsSet(w.Completion.Flag),
		Notebook: sess.Player.Notebook,
		Printed:  now,
	}
	for _, s := range w.Storylines {
		c.Towns = append(c.Towns, town{Name: s, Done: sess.Flags.IsSet(s)})
	}
	for _, q := range w.Quests {
		if sess.Flags.IsSet(q) {
			c.Done++
		}
	}
	return c
}

const (
	pageW  = 595.28
	pageH  = 841.89
	margin = 48.0
)

// render lays the certificate out on A4 pages and returns the PDF bytes.
func render(c certificate) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, "Printed "+c.Printed.Format("2006-01-02 15:04"), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	// Parchment background and border.
	pdf.SetFillColor(245, 235, 210)
	pdf.Rect(0, 0, pageW, pageH, "F")
	pdf.SetDrawColor(80, 50, 30)
	pdf.SetLineWidth(2)
	pdf.Rect(margin/2, margin/2, pageW-margin, pageH-margin, "D")
	pdf.SetLineWidth(1)

	pdf.SetTextColor(80, 50, 30)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 32, "Adventurer's Notebook", "", 1, "C", false, 0, "")
	if c.World != "" {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.CellFormat(0, 16, tr(c.World), "", 1, "C", false, 0, "")
	}
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 16, tr("Presented to "+c.Player), "", 1, "C", false, 0, "")
	if c.Serial != "" {
		pdf.SetFont("Courier", "", 9)
		pdf.CellFormat(0, 12, "Badge "+c.Serial, "", 1, "C", false, 0, "")
	}
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 18, "Towns", "B", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 12)
	for _, t := range c.Towns {
		mark := "[  ]"
		if t.Done {
			mark = "[X]"
		}
		pdf.CellFormat(0, 16, fmt.Sprintf("%s  %s", mark, tr(t.Name)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
	pdf.CellFormat(0, 16, fmt.Sprintf("Quests complete: %d of %d", c.Done, c.Quests), "", 1, "L", false, 0, "")
	if c.Complete {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(180, 40, 40)
		pdf.CellFormat(0, 16, "Every storyline finished!", "", 1, "L", false, 0, "")
		pdf.SetTextColor(80, 50, 30)
	}
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 18, "Notebook", "B", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Courier", "", 10)
	if len(c.Notebook) == 0 {
		pdf.CellFormat(0, 14, "(empty)", "", 1, "L", false, 0, "")
	}
	for _, line := range c.Notebook {
		pdf.MultiCell(0, 14, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render notebook pdf: %w", err)
	}
	return buf.Bytes(), nil
}
