package crm

import (
	"fmt"
	"math"
	"strings"
)

const recentOrderCount = 3

// InsightsInstruction is the system instruction for business analysis prompts.
const InsightsInstruction = "You are a business consultant for the CRM of a computer hardware store. Give clear recommendations based on the data."

type Dashboard struct {
	OrderCount   int     `json:"orderCount"`
	TotalRevenue int64   `json:"totalRevenue"`
	ClientCount  int     `json:"clientCount"`
	ProductCount int     `json:"productCount"`
	AverageCheck int64   `json:"averageCheck"`
	RecentOrders []Order `json:"recentOrders"`
}

func (w *Workspace) Dashboard() Dashboard {
	orders := w.Orders()

	w.mu.RLock()
	clientCount := len(w.clients)
	productCount := len(w.products)
	w.mu.RUnlock()

	var revenue int64
	for _, o := range orders {
		revenue += o.Total
	}

	var avg int64
	if len(orders) > 0 {
		avg = int64(math.Round(float64(revenue) / float64(len(orders))))
	}

	recent := orders
	if len(recent) > recentOrderCount {
		recent = recent[:recentOrderCount]
	}

	return Dashboard{
		OrderCount:   len(orders),
		TotalRevenue: revenue,
		ClientCount:  clientCount,
		ProductCount: productCount,
		AverageCheck: avg,
		RecentOrders: recent,
	}
}

// InsightsPrompt renders the dashboard figures into an analysis request.
// A non-empty focus is appended as the question to answer.
func (w *Workspace) InsightsPrompt(focus string) string {
	d := w.Dashboard()

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the current computer hardware sales: revenue %s, average check %s, %d orders, %d clients, %d products.",
		formatThousands(d.TotalRevenue), formatThousands(d.AverageCheck), d.OrderCount, d.ClientCount, d.ProductCount)
	for _, o := range d.RecentOrders {
		fmt.Fprintf(&b, "\nRecent order %s: %s, %s, %s, %s.", o.ID, o.ClientName, strings.Join(o.Items, ", "), formatThousands(o.Total), o.Status)
	}

	focus = strings.TrimSpace(focus)
	if focus == "" {
		focus = "Give recommendations for increasing customer loyalty."
	}
	b.WriteString("\n")
	b.WriteString(focus)
	return b.String()
}

// formatThousands renders rubles the way the dashboard cards do: 215000 -> "₽215.0k".
func formatThousands(value int64) string {
	return fmt.Sprintf("₽%.1fk", float64(value)/1000)
}
