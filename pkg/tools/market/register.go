package market

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harun/stargent/pkg/agent"
	"github.com/harun/stargent/pkg/tools"
)

// candleDays is how much daily history pattern analysis fetches
const candleDays = 90

// Options carries the collaborators the market tools are built on
type Options struct {
	News      NewsSource
	Quotes    QuoteService
	Scenarios *ScenarioGenerator
}

// RegisterAll registers every market tool whose collaborator is
// configured. A nil collaborator skips its tools rather than failing.
func RegisterAll(registry *tools.Registry, opts Options) error {
	var defs []tools.Definition

	if opts.News != nil {
		defs = append(defs, latestNewsTool(opts.News))
	}
	if opts.Quotes != nil {
		defs = append(defs,
			marketIndicatorsTool(opts.Quotes),
			majorMoversTool(opts.Quotes),
			searchStockCodeTool(opts.Quotes),
			stockPriceTool(opts.Quotes),
			companyInfoTool(opts.Quotes),
			stockPatternTool(opts.Quotes),
		)
	}
	if opts.Scenarios != nil {
		defs = append(defs, scenariosTool(opts.Scenarios))
	}

	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", def.Name, err)
		}
	}
	return nil
}

// ToolsFor returns the tool subset one agent identity may call
func ToolsFor(identity agent.Identity) []string {
	switch identity {
	case agent.IdentityKiki:
		return []string{"get_latest_news", "get_market_indicators", "get_major_movers"}
	case agent.IdentityAger:
		return []string{"search_stock_code", "get_stock_price", "get_company_info", "analyze_stock_pattern"}
	case agent.IdentityRamu:
		return []string{"generate_scenarios"}
	default:
		return nil
	}
}

func latestNewsTool(source NewsSource) tools.Definition {
	return tools.Definition{
		Name:        "get_latest_news",
		Description: "Fetch the latest financial news headlines with short summaries.",
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			items, err := source.Fetch(ctx)
			if err != nil {
				return errorPayload("news is temporarily unavailable", err), nil
			}
			return jsonPayload(items), nil
		},
	}
}

func marketIndicatorsTool(quotes QuoteService) tools.Definition {
	return tools.Definition{
		Name:        "get_market_indicators",
		Description: "Get a snapshot of market indices and FX rates. Symbols are comma-separated; omit for the default set.",
		Parameters: []tools.Parameter{
			{Name: "symbols", Type: "string", Description: "Comma-separated symbols, e.g. KOSPI,USD/KRW", Required: false},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			result, err := quotes.Indicators(ctx, splitSymbols(stringParam(params, "symbols")))
			if err != nil {
				return errorPayload("market indicators are temporarily unavailable", err), nil
			}
			return jsonPayload(result), nil
		},
	}
}

func majorMoversTool(quotes QuoteService) tools.Definition {
	return tools.Definition{
		Name:        "get_major_movers",
		Description: "Get today's top gaining or losing stocks.",
		Parameters: []tools.Parameter{
			{Name: "direction", Type: "string", Description: "Either 'gainers' or 'losers'", Required: true},
			{Name: "limit", Type: "integer", Description: "How many entries to return, default 5", Required: false},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			direction := stringParam(params, "direction")
			if direction != "gainers" && direction != "losers" {
				return nil, fmt.Errorf("direction must be 'gainers' or 'losers'")
			}

			limit := intParam(params, "limit", 5)
			result, err := quotes.Movers(ctx, direction, limit)
			if err != nil {
				return errorPayload("mover data is temporarily unavailable", err), nil
			}
			return jsonPayload(result), nil
		},
	}
}

func searchStockCodeTool(quotes QuoteService) tools.Definition {
	return tools.Definition{
		Name:        "search_stock_code",
		Description: "Find a stock's ticker code by company name.",
		Parameters: []tools.Parameter{
			{Name: "name", Type: "string", Description: "Company name to search for", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			name := stringParam(params, "name")
			if name == "" {
				return nil, fmt.Errorf("name is required")
			}

			result, err := quotes.Search(ctx, name)
			if err != nil {
				return errorPayload("stock search is temporarily unavailable", err), nil
			}
			if len(result) == 0 {
				return errorPayload(fmt.Sprintf("no stock found matching %q", name), nil), nil
			}
			return jsonPayload(result), nil
		},
	}
}

func stockPriceTool(quotes QuoteService) tools.Definition {
	return tools.Definition{
		Name:        "get_stock_price",
		Description: "Get the latest price snapshot for a stock code.",
		Parameters: []tools.Parameter{
			{Name: "code", Type: "string", Description: "Stock ticker code", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			code := stringParam(params, "code")
			if code == "" {
				return nil, fmt.Errorf("code is required")
			}

			result, err := quotes.Price(ctx, code)
			if err != nil {
				return errorPayload("price data is temporarily unavailable", err), nil
			}
			return jsonPayload(result), nil
		},
	}
}

func companyInfoTool(quotes QuoteService) tools.Definition {
	return tools.Definition{
		Name:        "get_company_info",
		Description: "Get a company's fundamental profile: industry, market cap, valuation ratios, and dividend yield.",
		Parameters: []tools.Parameter{
			{Name: "code", Type: "string", Description: "Stock ticker code", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			code := stringParam(params, "code")
			if code == "" {
				return nil, fmt.Errorf("code is required")
			}

			result, err := quotes.Company(ctx, code)
			if err != nil {
				return errorPayload("company data is temporarily unavailable", err), nil
			}
			return jsonPayload(result), nil
		},
	}
}

func stockPatternTool(quotes QuoteService) tools.Definition {
	return tools.Definition{
		Name:        "analyze_stock_pattern",
		Description: "Run technical analysis on a stock: moving averages, cross signals, volume trend, and RSI.",
		Parameters: []tools.Parameter{
			{Name: "code", Type: "string", Description: "Stock ticker code", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			code := stringParam(params, "code")
			if code == "" {
				return nil, fmt.Errorf("code is required")
			}

			candles, err := quotes.Candles(ctx, code, candleDays)
			if err != nil {
				return errorPayload("chart data is temporarily unavailable", err), nil
			}

			report, err := AnalyzePattern(code, candles)
			if err != nil {
				return errorPayload("not enough chart history for analysis", err), nil
			}
			return jsonPayload(report), nil
		},
	}
}

func scenariosTool(generator *ScenarioGenerator) tools.Definition {
	return tools.Definition{
		Name:        "generate_scenarios",
		Description: "Generate optimistic, neutral, and pessimistic market scenarios for a topic.",
		Parameters: []tools.Parameter{
			{Name: "topic", Type: "string", Description: "The market situation to simulate", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			topic := stringParam(params, "topic")
			if topic == "" {
				return nil, fmt.Errorf("topic is required")
			}
			return jsonPayload(generator.Generate(ctx, topic)), nil
		},
	}
}

// jsonPayload marshals a value for the model; the value types here
// cannot fail to marshal.
func jsonPayload(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}

// errorPayload is the degraded JSON answer handed to the model when an
// upstream source fails. The tool call itself still succeeds.
func errorPayload(message string, cause error) string {
	payload := map[string]string{"error": message}
	if cause != nil {
		payload["detail"] = cause.Error()
	}
	return jsonPayload(payload)
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func splitSymbols(raw string) []string {
	if raw == "" {
		return nil
	}
	var symbols []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			symbols = append(symbols, trimmed)
		}
	}
	return symbols
}
