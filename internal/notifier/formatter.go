package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"StructSentinel/internal/model"
)

var stateEmoji = map[model.SignalState]string{
	model.SignalWaitingForEntry: "🕐",
	model.SignalEntryHit:        "🎯",
	model.SignalTPHit:           "✅",
	model.SignalSLHit:           "🛑",
	model.SignalTimeExit:        "⌛",
	model.SignalCancelled:       "🚫",
}

// FormatStructureReport formats an analysis result into a Telegram message.
func FormatStructureReport(st *model.StructureState) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s %s structure</b> | %s\n\n", st.Symbol, st.Timeframe, time.Now().UTC().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Verdict: <b>%s</b> (confidence %.0f%%)\n", strings.ToUpper(string(st.State)), st.Confidence*100))
	b.WriteString(fmt.Sprintf("Dominance: bull %.3f / bear %.3f\n\n", st.Dominance.Bullish, st.Dominance.Bearish))

	if len(st.Evidence) > 0 {
		b.WriteString("📈 <b>Evidence:</b>\n")
		for _, ev := range st.Evidence {
			if ev.Kind == model.EvidenceNote {
				b.WriteString(fmt.Sprintf("  ℹ️ %s\n", ev.Description))
				continue
			}
			b.WriteString(fmt.Sprintf("  %s %s: strength %.2f, quality %.2f\n",
				ev.Kind, ev.Direction, ev.Strength, ev.Quality))
			if ev.Description != "" {
				b.WriteString(fmt.Sprintf("      %s\n", ev.Description))
			}
		}
	}

	b.WriteString(fmt.Sprintf("\ntrace: <code>%s</code>", st.TraceID))
	return b.String()
}

// FormatTransition formats one lifecycle transition into a Telegram message.
func FormatTransition(sig model.Signal, to model.SignalState, reason string) string {
	var b strings.Builder

	emoji := stateEmoji[to]
	if emoji == "" {
		emoji = "🔔"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s %s</b> → %s\n", emoji, sig.Symbol, sig.Direction, to))
	b.WriteString(fmt.Sprintf("Reason: %s\n\n", reason))
	b.WriteString(fmt.Sprintf("Entry: %.5f | TP: %.5f | SL: %.5f\n", sig.EntryPrice, sig.TakeProfit, sig.StopLoss))

	switch to {
	case model.SignalWaitingForEntry:
		b.WriteString(fmt.Sprintf("Entry window closes %s\n", humanize.Time(sig.EntryDeadline)))
	case model.SignalEntryHit:
		b.WriteString(fmt.Sprintf("Trade deadline %s\n", humanize.Time(sig.TradeDeadline)))
	default:
		b.WriteString(fmt.Sprintf("Opened %s\n", humanize.Time(sig.CreatedAt)))
	}
	b.WriteString(fmt.Sprintf("trace: <code>%s</code>", sig.TraceID))
	return b.String()
}

// FormatSignalList formats open signals for the /status command.
func FormatSignalList(signals []model.Signal) string {
	if len(signals) == 0 {
		return "📦 No open signals."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>Open signals (%d)</b>\n\n", len(signals)))
	for _, sig := range signals {
		emoji := stateEmoji[sig.State]
		if emoji == "" {
			emoji = "•"
		}
		b.WriteString(fmt.Sprintf("%s %s %s [%s]\n", emoji, sig.Symbol, sig.Direction, sig.State))
		b.WriteString(fmt.Sprintf("   entry %.5f, tp %.5f, sl %.5f\n", sig.EntryPrice, sig.TakeProfit, sig.StopLoss))
		if sig.State == model.SignalEntryHit {
			b.WriteString(fmt.Sprintf("   deadline %s\n", humanize.Time(sig.TradeDeadline)))
		} else {
			b.WriteString(fmt.Sprintf("   entry window closes %s\n", humanize.Time(sig.EntryDeadline)))
		}
	}
	return b.String()
}
