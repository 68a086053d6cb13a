package reporting

import (
	"fmt"
	"strings"
	"time"

	"wallet-credit-lab/internal/explain"
)

// RenderMarkdown renders the score report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Credit Score Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Events | %d |\n", r.TotalEvents))
	sb.WriteString(fmt.Sprintf("| Total Wallets | %d |\n", r.TotalWallets))
	if r.DateRangeStart > 0 {
		sb.WriteString(fmt.Sprintf("| Date Range Start | %s |\n",
			time.Unix(r.DateRangeStart, 0).UTC().Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("| Date Range End | %s |\n",
			time.Unix(r.DateRangeEnd, 0).UTC().Format(time.RFC3339)))
	}
	sb.WriteString(fmt.Sprintf("| Sanitized Feature Cells | %d |\n", r.SanitizedCells))
	sb.WriteString("\n")

	sb.WriteString("## Score Distribution\n\n")
	d := r.Distribution
	sb.WriteString("| Stat | Value |\n")
	sb.WriteString("|------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Count | %d |\n", d.Count))
	sb.WriteString(fmt.Sprintf("| Mean | %.2f |\n", d.Mean))
	sb.WriteString(fmt.Sprintf("| Stddev | %.2f |\n", d.Stddev))
	sb.WriteString(fmt.Sprintf("| Min | %d |\n", d.Min))
	sb.WriteString(fmt.Sprintf("| P25 | %.1f |\n", d.P25))
	sb.WriteString(fmt.Sprintf("| Median | %.1f |\n", d.Median))
	sb.WriteString(fmt.Sprintf("| P75 | %.1f |\n", d.P75))
	sb.WriteString(fmt.Sprintf("| Max | %d |\n", d.Max))
	sb.WriteString("\n")

	sb.WriteString("## Interpretation Guide\n\n")
	sb.WriteString("- 800-1000: Excellent (responsible, consistent repayments)\n")
	sb.WriteString("- 600-799: Good (reliable users)\n")
	sb.WriteString("- 400-599: Average (some risk factors)\n")
	sb.WriteString("- 200-399: Risky (irregular patterns)\n")
	sb.WriteString("- 0-199: High risk (liquidations/bot-like)\n\n")

	if len(r.Attribution) > 0 {
		sb.WriteString("## Feature Attribution\n\n")
		sb.WriteString("| Feature | Importance |\n")
		sb.WriteString("|---------|------------|\n")
		for _, a := range r.Attribution {
			sb.WriteString(fmt.Sprintf("| %s | %.4f |\n", a.Feature, a.Importance))
		}
		sb.WriteString("\n")
	}

	writeWalletTable(&sb, "Top Wallets", r.TopWallets)
	writeWalletTable(&sb, "Bottom Wallets", r.BottomWallets)

	sb.WriteString("## Reproducibility\n\n")
	sb.WriteString(fmt.Sprintf("- Data Version: `%s`\n", r.DataVersion))
	if r.ReplayCommand != "" {
		sb.WriteString(fmt.Sprintf("- Replay: `%s`\n", r.ReplayCommand))
	}

	return sb.String()
}

func writeWalletTable(sb *strings.Builder, title string, rows []ScoreRow) {
	if len(rows) == 0 {
		return
	}
	sb.WriteString("## " + title + "\n\n")
	sb.WriteString("| Wallet | Credit Score | Band |\n")
	sb.WriteString("|--------|--------------|------|\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n",
			row.WalletID, row.CreditScore, explain.InterpretScore(row.CreditScore)))
	}
	sb.WriteString("\n")
}
