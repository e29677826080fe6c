// Package report formats evaluated dice expressions for people and
// programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lemonberrylabs/dicer/pkg/dice"
	"gopkg.in/yaml.v3"
)

// ANSI escape sequences.
const (
	ansiBold      = "\x1b[1m"
	ansiDim       = "\x1b[2m"
	ansiNormal    = "\x1b[22m"
	ansiStrike    = "\x1b[9m"
	ansiNoStrike  = "\x1b[29m"
	ansiRed       = "\x1b[31m"
	ansiGreen     = "\x1b[32m"
	ansiDefaultFg = "\x1b[39m"
)

// Format selects the output encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name. The empty string selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatText, fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Report is one evaluated expression.
type Report struct {
	Expression string            `json:"expression" yaml:"expression"`
	Canonical  string            `json:"canonical" yaml:"canonical"`
	Mode       string            `json:"mode" yaml:"mode"`
	Total      int               `json:"total" yaml:"total"`
	Dice       []dice.DieOutcome `json:"dice" yaml:"dice"`
}

// New builds a report for input, its parsed tree and evaluation result.
func New(input string, node dice.Node, mode dice.Mode, res dice.Result) Report {
	rolls := res.Rolls
	if rolls == nil {
		rolls = []dice.DieOutcome{}
	}
	return Report{
		Expression: strings.TrimSpace(input),
		Canonical:  dice.Format(node),
		Mode:       mode.String(),
		Total:      res.Total,
		Dice:       rolls,
	}
}

// Write encodes r to w. color applies to FormatText only.
func Write(w io.Writer, r Report, format Format, color bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, Text(r, color))
		return err
	}
}

// Text renders the canonical expression, one token per die in roll order
// and the total, each on its own line. Dropped dice are struck through in
// red when color is set and wrapped in tildes otherwise.
func Text(r Report, color bool) string {
	var sb strings.Builder
	sb.WriteString(r.Canonical)
	sb.WriteByte('\n')

	if len(r.Dice) > 0 {
		tokens := make([]string, len(r.Dice))
		for i, d := range r.Dice {
			tokens[i] = DieToken(d, color)
		}
		sb.WriteString(strings.Join(tokens, " "))
		sb.WriteByte('\n')
	}

	if color {
		fmt.Fprintf(&sb, "%stotal = %s%s%d%s\n", ansiDim, ansiNormal, ansiBold, r.Total, ansiNormal)
	} else {
		fmt.Fprintf(&sb, "total = %d\n", r.Total)
	}
	return sb.String()
}

// DieToken renders a single die as [d<sides>:<value>].
func DieToken(d dice.DieOutcome, color bool) string {
	if !color {
		token := fmt.Sprintf("[d%d:%d]", d.Sides, d.Value)
		if !d.Kept {
			return "~" + token + "~"
		}
		return token
	}
	body := fmt.Sprintf("[d%d:%s%d%s]", d.Sides, ansiBold, d.Value, ansiNormal)
	if d.Kept {
		return ansiGreen + body + ansiDefaultFg
	}
	return ansiStrike + ansiRed + body + ansiDefaultFg + ansiNoStrike
}
