// Package report renders analysis results and URL exports.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mikey/phish-detector/internal/core"
)

// Format names an output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat returns the format matching s, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Verdict returns the headline for a result
func Verdict(result *core.AnalysisResult) string {
	if result.IsPhishing {
		return "PHISHING DETECTED"
	}
	return "NO PHISHING DETECTED"
}

// Render writes a result in the given format
func Render(w io.Writer, result *core.AnalysisResult, format Format) error {
	switch format {
	case FormatText, "":
		return renderText(w, result)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q is not supported for reports", format)
}

func renderText(w io.Writer, result *core.AnalysisResult) error {
	var sb strings.Builder

	sb.WriteString("PHISHING EMAIL ANALYSIS REPORT\n")
	fmt.Fprintf(&sb, "Generated on %s\n\n", result.Timestamp.Format(core.TimestampLayout))
	fmt.Fprintf(&sb, "VERDICT: %s\n", Verdict(result))
	fmt.Fprintf(&sb, "Phishing Probability: %.1f%%\n", result.Probability*100)
	if result.ModelUsed != "" {
		fmt.Fprintf(&sb, "Model: %s\n", result.ModelUsed)
	}

	sb.WriteString("\nEMAIL DETAILS:\n")
	if email := result.Email; email != nil {
		writeField(&sb, "From", email.From)
		writeField(&sb, "To", email.To)
		writeField(&sb, "Subject", email.Subject)
		writeField(&sb, "Date", email.Date)
		writeField(&sb, "Reply-To", email.ReplyTo)
		writeField(&sb, "Return-Path", email.ReturnPath)
	}
	source := result.Source
	if source == "" {
		source = "Manual input"
	}
	writeField(&sb, "Source", source)

	if len(result.Indicators) > 0 {
		sb.WriteString("\nSUSPICIOUS INDICATORS:\n")
		for i, ind := range result.Indicators {
			fmt.Fprintf(&sb, "%d. [%s] %s\n   %s\n\n", i+1, strings.ToUpper(string(ind.Severity)), ind.Name, ind.Description)
		}
	}

	if len(result.URLs) > 0 {
		fmt.Fprintf(&sb, "\nDETECTED URLS (%d):\n", len(result.URLs))
		for i, u := range result.URLs {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, u)
		}
	}

	if result.Email != nil && len(result.Email.Headers) > 0 {
		sb.WriteString("\nALL EMAIL HEADERS:\n")
		names := make([]string, 0, len(result.Email.Headers))
		for name := range result.Email.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "%s: %s\n", name, result.Email.Headers[name])
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeField(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%s: %s\n", name, value)
}

// ExportURLs writes URL records as CSV or JSON
func ExportURLs(w io.Writer, records []core.URLRecord, format Format) error {
	switch format {
	case FormatCSV, "":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"URL", "Source", "Date Added", "Risk Level"}); err != nil {
			return err
		}
		for _, r := range records {
			if err := cw.Write([]string{r.URL, r.Source, r.DateAdded, string(r.RiskLevel)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatJSON:
		if records == nil {
			records = []core.URLRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return fmt.Errorf("format %q is not supported for URL export", format)
}

// RenderHistory writes a short table of recent analyses
func RenderHistory(w io.Writer, entries []core.HistoryEntry) error {
	var sb strings.Builder
	if len(entries) == 0 {
		sb.WriteString("No analysis history.\n")
	} else {
		sb.WriteString("RECENT ANALYSES:\n")
		for _, e := range entries {
			verdict := "clean"
			if e.IsPhishing == 1 {
				verdict = "phishing"
			}
			fmt.Fprintf(&sb, "%s  %-8s  %5.1f%%  %s\n", e.Timestamp, verdict, e.Probability*100, e.Source)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
