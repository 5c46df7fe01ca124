package discord

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wonny/capengine/internal/architect"
	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/internal/trader"
	"github.com/wonny/capengine/pkg/httputil"
	"github.com/wonny/capengine/pkg/logger"
)

// Embed colors
const (
	colorGreen  = 0x2ecc71
	colorOrange = 0xe67e22
	colorRed    = 0xe74c3c
	colorBlue   = 0x3498db
)

// maxDescriptionLen is the webhook limit for one embed body
const maxDescriptionLen = 4000

// Notifier posts run artifacts to a Discord webhook
// ⭐ SSOT: Discord 발송은 여기서만
type Notifier struct {
	httpClient *httputil.Client
	webhookURL string
	enabled    bool
	logger     *logger.Logger
}

// NewNotifier creates a notifier. With an empty webhook URL every send
// becomes a logged no-op, so callers never need to branch.
func NewNotifier(httpClient *httputil.Client, webhookURL string, log *logger.Logger) *Notifier {
	return &Notifier{
		httpClient: httpClient,
		webhookURL: webhookURL,
		enabled:    webhookURL != "",
		logger:     log,
	}
}

// webhookPayload is the Discord webhook request body
type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds,omitempty"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendReport posts the Architect summary for one run
func (n *Notifier) SendReport(ctx context.Context, runID string, report *contracts.RunReport) error {
	color := colorGreen
	if report.EmptyBatch || len(report.TopTier()) == 0 {
		color = colorOrange
	}

	return n.send(ctx, webhookPayload{
		Embeds: []embed{{
			Title:       fmt.Sprintf("Research Report — run %s", runID),
			Description: truncate(architect.Summary(report)),
			Color:       color,
			Timestamp:   report.GeneratedAt.Format(time.RFC3339),
		}},
	})
}

// SendPlan posts the execution plan awaiting approval
func (n *Notifier) SendPlan(ctx context.Context, runID string, plan *contracts.ExecutionPlan) error {
	color := colorBlue
	switch plan.Status {
	case contracts.PlanApproved:
		color = colorGreen
	case contracts.PlanRejected:
		color = colorRed
	}

	fields := []embedField{
		{Name: "Budget", Value: fmt.Sprintf("$%.2f", plan.Budget), Inline: true},
		{Name: "Invested", Value: fmt.Sprintf("$%.2f", plan.TotalInvested()), Inline: true},
		{Name: "Positions", Value: fmt.Sprintf("%d", len(plan.Plans)), Inline: true},
	}
	if warnings := len(plan.Sectors.Warnings); warnings > 0 {
		fields = append(fields, embedField{
			Name:  "Concentration",
			Value: strings.Join(plan.Sectors.Warnings, "\n"),
		})
	}

	return n.send(ctx, webhookPayload{
		Embeds: []embed{{
			Title:       fmt.Sprintf("Execution Plan — %s", plan.Status),
			Description: truncate("```\n" + trader.RenderFactoryLog(plan) + "\n```"),
			Color:       color,
			Fields:      fields,
			Timestamp:   plan.GeneratedAt.Format(time.RFC3339),
		}},
	})
}

// SendError posts a pipeline failure alert
func (n *Notifier) SendError(ctx context.Context, runID string, runErr error) error {
	return n.send(ctx, webhookPayload{
		Embeds: []embed{{
			Title:       fmt.Sprintf("Pipeline failed — run %s", runID),
			Description: truncate(runErr.Error()),
			Color:       colorRed,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	})
}

func (n *Notifier) send(ctx context.Context, payload webhookPayload) error {
	if !n.enabled {
		n.logger.Debug("Discord disabled, dropping notification")
		return nil
	}

	resp, err := n.httpClient.PostJSON(ctx, n.webhookURL, payload)
	if err != nil {
		return fmt.Errorf("webhook post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Debug("Discord notification sent")
	return nil
}

func truncate(s string) string {
	if len(s) <= maxDescriptionLen {
		return s
	}
	return s[:maxDescriptionLen-3] + "..."
}
