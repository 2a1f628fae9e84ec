package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salepoint/internal/database"
	"salepoint/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers a back-office question ("how did we do last week?",
// "what needs reordering?") by letting the model call read-only store tools.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant for a point-of-sale system.

RULES:
1. STOCK: For questions about products, prices or stock levels, call 'check_inventory'
   and read the JSON to answer. Do not guess.
2. REORDER: For questions about what is running out or expired, call 'check_low_stock'.
3. SALES: For revenue, profit or transaction counts, call 'get_sales_report' with a
   date range.
4. Answer with concrete numbers from the tool results.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full product list with prices and current stock levels.",
				},
				{
					Name:        "check_low_stock",
					Description: "Get the products that are out of stock, expired, or at/below their reorder level.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get revenue, profit and transaction count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD), inclusive"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	// Up to a few tool round-trips before we give up and return whatever text we have
	for round := 0; round < 4; round++ {
		var toolResponses []genai.Part

		for _, part := range resp.Candidates[0].Content.Parts {
			funcCall, ok := part.(genai.FunctionCall)
			if !ok {
				continue
			}

			result, err := runTool(funcCall)
			if err != nil {
				result = map[string]any{"error": err.Error()}
			}
			toolResponses = append(toolResponses, genai.FunctionResponse{
				Name:     funcCall.Name,
				Response: result,
			})
		}

		if len(toolResponses) == 0 {
			break
		}

		resp, err = session.SendMessage(ctx, toolResponses...)
		if err != nil {
			return "", err
		}
	}

	var answer string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			answer += string(text)
		}
	}
	if answer == "" {
		return "I could not produce an answer for that question.", nil
	}
	return answer, nil
}

func runTool(call genai.FunctionCall) (map[string]any, error) {
	switch call.Name {
	case "check_inventory":
		return inventorySnapshot(false)
	case "check_low_stock":
		return inventorySnapshot(true)
	case "get_sales_report":
		return salesReport(call.Args)
	default:
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}
}

func inventorySnapshot(onlyProblems bool) (map[string]any, error) {
	var products []models.Product
	if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
		return nil, err
	}

	type row struct {
		ID           uint    `json:"id"`
		Name         string  `json:"name"`
		SellingPrice float64 `json:"selling_price"`
		QuantityLeft int     `json:"quantity_left"`
		ReorderLevel int     `json:"reorder_level"`
		Status       string  `json:"status"`
	}

	now := time.Now()
	rows := make([]row, 0, len(products))
	for _, p := range products {
		status := p.StockStatus(now)
		if onlyProblems && status == models.StatusInStock {
			continue
		}
		rows = append(rows, row{
			ID:           p.ID,
			Name:         p.Name,
			SellingPrice: p.SellingPrice,
			QuantityLeft: p.QuantityLeft,
			ReorderLevel: p.ReorderLevel,
			Status:       status,
		})
	}

	// Round-trip through JSON so the SDK gets plain maps
	encoded, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	var plain []any
	if err := json.Unmarshal(encoded, &plain); err != nil {
		return nil, err
	}
	return map[string]any{"products": plain, "count": len(plain)}, nil
}

func salesReport(args map[string]any) (map[string]any, error) {
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date %q", startStr)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date %q", endStr)
	}

	metrics, err := database.GetMetrics(start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"total_revenue":      metrics.TotalRevenue,
		"total_profit":       metrics.TotalProfit,
		"total_transactions": metrics.TotalTransactions,
	}, nil
}
