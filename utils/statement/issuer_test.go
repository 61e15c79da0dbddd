package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aashish23092/statement-parser/dto"
)

func pages(texts ...string) []dto.Page {
	out := make([]dto.Page, len(texts))
	for i, t := range texts {
		out[i] = dto.Page{PageNum: i + 1, Text: t}
	}
	return out
}

func TestDetectIssuer(t *testing.T) {
	tests := []struct {
		name   string
		pages  []dto.Page
		issuer dto.Issuer
		conf   float64
	}{
		{"single keyword", pages("Welcome to HDFC Bank statement"), dto.IssuerHDFC, 1},
		{"no keyword", pages("Monthly statement of account"), dto.IssuerUnknown, 0},
		{"tie goes to earlier profile", pages("Axis Bank partner offers from ICICI Bank"), dto.IssuerAXIS, 1},
		{"higher score wins", pages("ICICI Bank", "Amazon Pay ICICI card. Pay via HDFC Bank netbanking"), dto.IssuerICICI, 1},
		{"empty document", nil, dto.IssuerUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, conf := DetectIssuer(tt.pages)
			assert.Equal(t, tt.issuer, issuer)
			assert.Equal(t, tt.conf, conf)
		})
	}
}

func TestParseIssuer(t *testing.T) {
	assert.Equal(t, dto.IssuerICICI, ParseIssuer(" icici "))
	assert.Equal(t, dto.IssuerSBI, ParseIssuer("SBI"))
	assert.Equal(t, dto.IssuerUnknown, ParseIssuer("kotak"))
	assert.Equal(t, dto.IssuerUnknown, ParseIssuer(""))
}

func TestResolveLabels(t *testing.T) {
	sbi := ResolveLabels(dto.IssuerSBI)
	assert.Equal(t, "*total amount due", sbi.Labels(LabelTotal)[0])

	generic := ResolveLabels(dto.IssuerUnknown)
	assert.Contains(t, generic.Labels(LabelTotal), "amount to be paid")

	partial := LabelTable{LabelTotal: {"grand total"}}
	assert.Equal(t, []string{"grand total"}, partial.Labels(LabelTotal))
	assert.Equal(t, genericLabels[LabelMinimum], partial.Labels(LabelMinimum), "missing keys fall back to generic")
}
