package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"AviatorAdvisor/internal/model"
	"AviatorAdvisor/internal/recorder"
	"AviatorAdvisor/internal/session"
)

// FormatPlan renders a wager plan, one line per staked leg.
func FormatPlan(p model.WagerPlan) string {
	if p.Empty() {
		return "No bet"
	}
	var b strings.Builder
	if p.Safety.Active() {
		b.WriteString(fmt.Sprintf("🛡 Safety: %.2f @ %.2fx\n", p.Safety.Amount, p.Safety.TargetMultiplier))
	}
	if p.Profit.Active() {
		b.WriteString(fmt.Sprintf("🎯 Profit: %.2f @ %.2fx\n", p.Profit.Amount, p.Profit.TargetMultiplier))
	}
	if p.Cautious {
		b.WriteString("⚠️ Cautious: reduced after a spike\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatStatus formats the current engine view for /status.
func FormatStatus(v session.View) string {
	var b strings.Builder
	st := v.Bankroll

	b.WriteString(fmt.Sprintf("✈️ <b>Aviator</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Status: <b>%s</b>\n", v.Status.Label()))
	if v.Reason != "" {
		b.WriteString(fmt.Sprintf("Reason: %s\n", html.EscapeString(v.Reason)))
	}
	if st.InitialBankroll.IsPositive() {
		b.WriteString(fmt.Sprintf("Bankroll: %s (start %s, %s)\n",
			st.CurrentBankroll.StringFixed(2), st.InitialBankroll.StringFixed(2), signed(st.Profit().InexactFloat64())))
		b.WriteString(fmt.Sprintf("Stop win %s | Stop loss %s\n", st.StopWinLevel().StringFixed(2), st.StopLossLevel().StringFixed(2)))
		b.WriteString(fmt.Sprintf("Profile: %s | Losses in a row: %d\n", st.ProfileMode, st.ConsecutiveLosses))
	}
	if v.Report != nil {
		b.WriteString(fmt.Sprintf("Confidence: %.0f", v.Report.FinalScore))
		if v.Report.Defensive {
			b.WriteString(" (defensive)")
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Rounds seen: %d\n", v.Rounds))
	if v.Rounds > 0 {
		b.WriteString(fmt.Sprintf("Last %d: 🔵 %d 🟣 %d 🌸 %d\n", min(v.Rounds, session.ColorWindow),
			v.Colors[model.ColorBlue], v.Colors[model.ColorPurple], v.Colors[model.ColorPink]))
	}

	if v.Status.Wagering() {
		b.WriteString("\n<b>Next round</b>\n")
		b.WriteString(FormatPlan(v.Plan))
		b.WriteString("\n\n<b>If it wins</b>\n")
		b.WriteString(FormatPlan(v.IfWin))
		b.WriteString("\n<b>If it loses</b>\n")
		b.WriteString(FormatPlan(v.IfLose))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatStep formats the plan announcement after a round.
func FormatStep(s session.Step) string {
	var b strings.Builder
	if s.Settlement != nil && s.Settlement.Settled {
		icon := "✅"
		if !s.Settlement.Won {
			icon = "❌"
		}
		b.WriteString(fmt.Sprintf("%s %.2fx: %s\n", icon, s.Settlement.Round.Multiplier, signed(s.Settlement.Profit.InexactFloat64())))
	}
	b.WriteString(fmt.Sprintf("<b>%s</b>: %s\n", s.Status.Label(), html.EscapeString(s.Reason)))
	if s.Status.Wagering() {
		b.WriteString(FormatPlan(s.Plan))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatSessionEnd formats the stop-win / stop-loss message.
func FormatSessionEnd(evt *model.SessionEndEvent) string {
	var b strings.Builder
	if evt.Type == model.OutcomeWin {
		b.WriteString("🏆 <b>Stop win reached</b>\n\n")
	} else {
		b.WriteString("🛑 <b>Stop loss reached</b>\n\n")
	}
	b.WriteString(fmt.Sprintf("Result: %s\n", signed(evt.ProfitOrLoss.InexactFloat64())))
	if evt.NextBestTime != nil {
		b.WriteString(fmt.Sprintf("Best time to come back: %s\n", *evt.NextBestTime))
	}
	b.WriteString("\n/reset to start over, /continue to keep the balance")
	return b.String()
}

// FormatProfileChange formats a smart-mode profile switch.
func FormatProfileChange(evt *model.ProfileChangeEvent) string {
	return fmt.Sprintf("🔄 Profile %s → <b>%s</b> (%s)", evt.From, evt.To, html.EscapeString(evt.Reason))
}

// FormatSummary formats the periodic report from recorded history.
func FormatSummary(s recorder.Summary, v session.View) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>Report</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Settled rounds: %d (%d won, %d lost)\n", s.Rounds, s.Wins, s.Losses))
	if s.Rounds > 0 {
		b.WriteString(fmt.Sprintf("Hit rate: %.0f%%\n", float64(s.Wins)/float64(s.Rounds)*100))
	}
	b.WriteString(fmt.Sprintf("Net: %s\n", signed(s.NetProfit)))
	b.WriteString(fmt.Sprintf("Sessions: %d won, %d lost\n", s.SessionsWon, s.SessionsLost))
	b.WriteString(fmt.Sprintf("Now: %s", v.Status.Label()))
	return b.String()
}

func signed(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}
